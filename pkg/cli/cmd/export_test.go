package cmd

// Exported for testing.
var (
	ReportSyncOutcome   = reportSyncOutcome
	ReportStatusOutcome = reportStatusOutcome
)
