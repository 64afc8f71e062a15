package notify_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestra-io/plugin-argocd/pkg/utils/notify"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Errorf(&buf, "sync failed: %s", "boom")

	assert.Contains(t, buf.String(), "✗ sync failed: boom")
}

func TestWarningf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Warningf(&buf, "output was not JSON")

	assert.Contains(t, buf.String(), "⚠ output was not JSON")
}

func TestSuccessf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Successf(&buf, "application %s synced", "my-application")

	assert.Contains(t, buf.String(), "✔ application my-application synced")
}

func TestActivityf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Activityf(&buf, "syncing %s", "my-application")

	assert.Contains(t, buf.String(), "► syncing my-application")
}

func TestInfof(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.Infof(&buf, "status retrieved")

	assert.Contains(t, buf.String(), "ℹ status retrieved")
}

func TestWriteMessage_NoArgsLeavesFormatUntouched(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: "100%% literal",
		Writer:  &buf,
	})

	assert.Contains(t, buf.String(), "100%% literal")
}
