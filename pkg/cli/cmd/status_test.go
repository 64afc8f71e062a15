package cmd_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestra-io/plugin-argocd/pkg/cli/cmd"
	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
)

func TestNewStatusCmdRegistersFlags(t *testing.T) {
	t.Parallel()

	statusCmd := cmd.NewStatusCmd()

	for _, name := range []string{
		"server", "token", "application", "insecure", "plaintext", "grpc-web",
		"server-cert-file", "argocd-version", "image", "env", "local", "refresh",
	} {
		assert.NotNil(t, statusCmd.Flags().Lookup(name), "flag %q should exist", name)
	}
}

func TestStatusCmdHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	statusCmd := cmd.NewStatusCmd()
	statusCmd.SetOut(&out)
	statusCmd.SetErr(&out)
	statusCmd.SetArgs([]string{"--help"})

	err := statusCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "argocd app get")
}

func TestStatusCmdMissingServerFails(t *testing.T) {
	var out, errOut bytes.Buffer

	t.Setenv("ARGOCD_SERVER", "")
	t.Setenv("ARGOCD_TOKEN", "")

	statusCmd := cmd.NewStatusCmd()
	statusCmd.SetOut(&out)
	statusCmd.SetErr(&errOut)
	statusCmd.SetArgs([]string{"--local", "--application", "guestbook"})

	err := statusCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, argocd.ErrServerRequired)
}

func TestStatusCmdMissingApplicationFails(t *testing.T) {
	var out, errOut bytes.Buffer

	t.Setenv("ARGOCD_APPLICATION", "")

	statusCmd := cmd.NewStatusCmd()
	statusCmd.SetOut(&out)
	statusCmd.SetErr(&errOut)
	statusCmd.SetArgs([]string{
		"--local",
		"--server", "argocd.example.com",
		"--token", "secret",
	})

	err := statusCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, argocd.ErrApplicationRequired)
}
