package cmd

import (
	"io"

	"github.com/kestra-io/plugin-argocd/pkg/task"
	"github.com/kestra-io/plugin-argocd/pkg/utils/notify"
)

// reportSyncOutcome tells the user how the sync went. A run whose CLI output
// could not be parsed succeeded as a process but carries no status fields, so
// it is reported as a warning instead of a success.
func reportSyncOutcome(
	errWriter io.Writer,
	application string,
	output task.SyncOutput,
	dryRun bool,
) {
	if output.SyncStatus == "" && output.HealthStatus == "" {
		notify.Warningf(
			errWriter,
			"application %s synced, but the CLI output could not be parsed",
			application,
		)
	} else {
		notify.Successf(
			errWriter,
			"application %s synced - status: %s, health: %s",
			application,
			output.SyncStatus,
			output.HealthStatus,
		)
	}

	if dryRun {
		notify.Infof(errWriter, "dry run, no changes were applied")
	}
}

// reportStatusOutcome mirrors reportSyncOutcome for the status operation.
func reportStatusOutcome(errWriter io.Writer, application string, output task.StatusOutput) {
	if output.SyncStatus == "" && output.HealthStatus == "" {
		notify.Warningf(
			errWriter,
			"status of application %s retrieved, but the CLI output could not be parsed",
			application,
		)

		return
	}

	notify.Successf(
		errWriter,
		"application %s - sync: %s, health: %s",
		application,
		output.SyncStatus,
		output.HealthStatus,
	)
}
