package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestra-io/plugin-argocd/pkg/io/configmanager"
	"github.com/kestra-io/plugin-argocd/pkg/task"
	"github.com/kestra-io/plugin-argocd/pkg/utils/notify"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Retrieve the status of an ArgoCD application",
		Long: "Retrieve the sync and health status of an ArgoCD application by " +
			"running `argocd app get`, optionally refreshing state from Git first.",
		SilenceUsage: true,
	}

	registerConnectionFlags(cmd)

	cmd.Flags().Bool("refresh", false, "Refresh application state from Git before reading")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return handleStatusRunE(cmd, configmanager.NewConfigManager())
	}

	return cmd
}

// handleStatusRunE handles the status command.
func handleStatusRunE(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) error {
	config, err := loadTaskConfig(cmd, cfgManager)
	if err != nil {
		return err
	}

	taskRunner, err := selectRunner(cmd)
	if err != nil {
		return err
	}

	notify.Activityf(cmd.ErrOrStderr(), "retrieving status of application %s", config.Application)

	output, runErr := task.Status{
		Connection: config.Connection(),
		Request:    config.StatusRequest(),
		Image:      config.Image,
		Env:        config.Env,
		Runner:     taskRunner,
	}.Run(cmd.Context())

	printErr := printOutput(cmd, output)
	if printErr != nil {
		return printErr
	}

	if runErr != nil {
		return fmt.Errorf("failed to retrieve application status: %w", runErr)
	}

	reportStatusOutcome(cmd.ErrOrStderr(), config.Application, output)

	return nil
}
