package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestra-io/plugin-argocd/pkg/io/configmanager"
	"github.com/kestra-io/plugin-argocd/pkg/runner"
	dockerrunner "github.com/kestra-io/plugin-argocd/pkg/runner/docker"
	"github.com/kestra-io/plugin-argocd/pkg/runner/shell"
)

// Flag names shared by the sync and status commands.
const (
	serverFlagName         = "server"
	tokenFlagName          = "token"
	applicationFlagName    = "application"
	insecureFlagName       = "insecure"
	plaintextFlagName      = "plaintext"
	grpcWebFlagName        = "grpc-web"
	serverCertFileFlagName = "server-cert-file"
	argoCDVersionFlagName  = "argocd-version"
	imageFlagName          = "image"
	envFlagName            = "env"
	localFlagName          = "local"
)

// registerConnectionFlags defines the flags both subcommands share.
func registerConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().String(serverFlagName, "", "ArgoCD API server address")
	cmd.Flags().String(tokenFlagName, "", "ArgoCD authentication token")
	cmd.Flags().String(applicationFlagName, "", "ArgoCD application name")
	cmd.Flags().Bool(insecureFlagName, true, "Skip TLS certificate verification")
	cmd.Flags().Bool(plaintextFlagName, false, "Connect over HTTP instead of HTTPS")
	cmd.Flags().Bool(grpcWebFlagName, false, "Use the gRPC-web transport")
	cmd.Flags().String(
		serverCertFileFlagName,
		"",
		"Path to a PEM-encoded server certificate",
	)
	cmd.Flags().String(
		argoCDVersionFlagName,
		"",
		"ArgoCD CLI version to download (defaults to the latest release)",
	)
	cmd.Flags().String(imageFlagName, "", "Container image to run the CLI in")
	cmd.Flags().StringToString(
		envFlagName,
		nil,
		"Additional environment variables (key=value)",
	)
	cmd.Flags().Bool(
		localFlagName,
		false,
		"Run the CLI on the host shell instead of a container",
	)
}

// flagBindings maps flag names to configuration keys for every flag that
// participates in config resolution.
func flagBindings() map[string]string {
	return map[string]string{
		serverFlagName:        "server",
		tokenFlagName:         "token",
		applicationFlagName:   "application",
		insecureFlagName:      "insecure",
		plaintextFlagName:     "plaintext",
		grpcWebFlagName:       "grpcWeb",
		argoCDVersionFlagName: "argoCDVersion",
		imageFlagName:         "image",
		envFlagName:           "env",
		"revision":            "revision",
		"prune":               "prune",
		"dry-run":             "dryRun",
		"force":               "force",
		"timeout":             "timeout",
		"refresh":             "refresh",
	}
}

// loadTaskConfig binds the command's flags into the config manager, resolves
// the configuration, and reads the server certificate file when one is given.
func loadTaskConfig(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
) (*configmanager.TaskConfig, error) {
	for flagName, configKey := range flagBindings() {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}

		err := cfgManager.BindFlag(configKey, flag)
		if err != nil {
			return nil, err
		}
	}

	config, err := cfgManager.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	certFile, err := cmd.Flags().GetString(serverCertFileFlagName)
	if err != nil {
		return nil, fmt.Errorf("read %s flag: %w", serverCertFileFlagName, err)
	}

	if certFile != "" {
		pem, readErr := os.ReadFile(certFile)
		if readErr != nil {
			return nil, fmt.Errorf("read server certificate file: %w", readErr)
		}

		config.ServerCert = string(pem)
	}

	return config, nil
}

// selectRunner picks the host shell runner when --local is set and a Docker
// runner configured from the environment otherwise.
func selectRunner(cmd *cobra.Command) (runner.Runner, error) {
	local, err := cmd.Flags().GetBool(localFlagName)
	if err != nil {
		return nil, fmt.Errorf("read %s flag: %w", localFlagName, err)
	}

	if local {
		return shell.NewRunner(), nil
	}

	taskRunner, err := dockerrunner.NewEnvRunner()
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker runner: %w", err)
	}

	return taskRunner, nil
}
