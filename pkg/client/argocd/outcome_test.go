package argocd_test

import (
	"testing"

	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const syncPayload = `{"status":{"sync":{"status":"Synced",` +
	`"revision":"abc123"},"health":{"status":"Healthy"},` +
	`"resources":[{"kind":"Deployment"}]}}`

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "noise around payload",
			raw:   `noise {"a":1} trailer`,
			want:  `{"a":1}`,
			found: true,
		},
		{
			name: "no braces",
			raw:  "no braces here",
		},
		{
			name: "empty input",
			raw:  "",
		},
		{
			name: "closing brace before opening",
			raw:  "} nonsense {",
		},
		{
			name:  "payload only",
			raw:   `{"a":1}`,
			want:  `{"a":1}`,
			found: true,
		},
		{
			name:  "stray braces widen the span",
			raw:   `warn {bad} {"a":1}`,
			want:  `{bad} {"a":1}`,
			found: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, found := argocd.ExtractJSON(testCase.raw)

			assert.Equal(t, testCase.found, found)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestParseOutcome_FullPayload(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome(syncPayload)

	assert.True(t, outcome.Parsed)
	assert.Equal(t, "Synced", outcome.SyncStatus)
	assert.Equal(t, "Healthy", outcome.HealthStatus)
	assert.Equal(t, "abc123", outcome.Revision)
	require.Len(t, outcome.Resources, 1)
	assert.Equal(t, "Deployment", outcome.Resources[0]["kind"])
	assert.Empty(t, outcome.Conditions)
	assert.Equal(t, syncPayload, outcome.RawOutput)
}

func TestParseOutcome_NoisyOutputStillParses(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome("WARN: deprecated flag\n" + syncPayload + "\ndone")

	assert.True(t, outcome.Parsed)
	assert.Equal(t, "Synced", outcome.SyncStatus)
}

func TestParseOutcome_MalformedInput(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome("not-json")

	assert.False(t, outcome.Parsed)
	assert.Empty(t, outcome.SyncStatus)
	assert.Empty(t, outcome.HealthStatus)
	assert.Empty(t, outcome.Revision)
	assert.Empty(t, outcome.Resources)
	assert.Empty(t, outcome.Conditions)
	assert.Equal(t, "not-json", outcome.RawOutput)
}

func TestParseOutcome_UndecodableBraces(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome("{ definitely not json }")

	assert.False(t, outcome.Parsed)
	assert.Equal(t, "{ definitely not json }", outcome.RawOutput)
}

func TestParseOutcome_EmptyInput(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome("")

	assert.False(t, outcome.Parsed)
	assert.Empty(t, outcome.RawOutput)
}

func TestParseOutcome_FieldsAreIndependent(t *testing.T) {
	t.Parallel()

	payload := `{"status":{"conditions":[{"type":"ComparisonError","message":"boom"}]}}`

	outcome := argocd.ParseOutcome(payload)

	assert.True(t, outcome.Parsed)
	require.Len(t, outcome.Conditions, 1)
	assert.Equal(t, "ComparisonError", outcome.Conditions[0]["type"])
	assert.Empty(t, outcome.Resources)
	assert.Empty(t, outcome.SyncStatus)
	assert.Empty(t, outcome.HealthStatus)
}

func TestParseOutcome_MissingStatusObject(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome(`{"metadata":{"name":"my-application"}}`)

	assert.True(t, outcome.Parsed)
	assert.Empty(t, outcome.SyncStatus)
	assert.Empty(t, outcome.Resources)
}

func TestParseOutcome_TrimsRawOutput(t *testing.T) {
	t.Parallel()

	outcome := argocd.ParseOutcome("\n  " + syncPayload + "  \n")

	assert.Equal(t, syncPayload, outcome.RawOutput)
}

func TestParseOutcome_Idempotent(t *testing.T) {
	t.Parallel()

	first := argocd.ParseOutcome(syncPayload)
	second := argocd.ParseOutcome(syncPayload)

	assert.Equal(t, first, second)
}
