package cmd_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestra-io/plugin-argocd/pkg/cli/cmd"
	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
)

func TestNewSyncCmdRegistersFlags(t *testing.T) {
	t.Parallel()

	syncCmd := cmd.NewSyncCmd()

	for _, name := range []string{
		"server", "token", "application", "insecure", "plaintext", "grpc-web",
		"server-cert-file", "argocd-version", "image", "env", "local",
		"revision", "prune", "dry-run", "force", "timeout",
	} {
		assert.NotNil(t, syncCmd.Flags().Lookup(name), "flag %q should exist", name)
	}
}

func TestSyncCmdHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	syncCmd := cmd.NewSyncCmd()
	syncCmd.SetOut(&out)
	syncCmd.SetErr(&out)
	syncCmd.SetArgs([]string{"--help"})

	err := syncCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "argocd app sync")
}

func TestSyncCmdMissingServerFails(t *testing.T) {
	var out, errOut bytes.Buffer

	t.Setenv("ARGOCD_SERVER", "")
	t.Setenv("ARGOCD_TOKEN", "")

	syncCmd := cmd.NewSyncCmd()
	syncCmd.SetOut(&out)
	syncCmd.SetErr(&errOut)
	syncCmd.SetArgs([]string{"--local", "--application", "guestbook"})

	err := syncCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, argocd.ErrServerRequired)
}

func TestSyncCmdMissingServerCertFileFails(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	missing := filepath.Join(t.TempDir(), "missing.crt")

	syncCmd := cmd.NewSyncCmd()
	syncCmd.SetOut(&out)
	syncCmd.SetErr(&errOut)
	syncCmd.SetArgs([]string{"--local", "--server-cert-file", missing})

	err := syncCmd.Execute()
	require.Error(t, err)
	assert.ErrorContains(t, err, "read server certificate file")
}

func TestSyncCmdInvalidTimeoutFails(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer

	syncCmd := cmd.NewSyncCmd()
	syncCmd.SetOut(&out)
	syncCmd.SetErr(&errOut)
	syncCmd.SetArgs([]string{"--timeout", "soon"})

	err := syncCmd.Execute()
	require.Error(t, err)
}

func TestSyncCmdMissingApplicationFails(t *testing.T) {
	var out, errOut bytes.Buffer

	t.Setenv("ARGOCD_APPLICATION", "")

	syncCmd := cmd.NewSyncCmd()
	syncCmd.SetOut(&out)
	syncCmd.SetErr(&errOut)
	syncCmd.SetArgs([]string{
		"--local",
		"--server", "argocd.example.com",
		"--token", "secret",
	})

	err := syncCmd.Execute()
	require.Error(t, err)

	if !errors.Is(err, argocd.ErrApplicationRequired) {
		t.Fatalf("expected error to wrap %v, got %v", argocd.ErrApplicationRequired, err)
	}
}
