package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestra-io/plugin-argocd/pkg/io/configmanager"
	"github.com/kestra-io/plugin-argocd/pkg/task"
	"github.com/kestra-io/plugin-argocd/pkg/utils/notify"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize an ArgoCD application",
		Long: "Synchronize an ArgoCD application to its declared Git state by " +
			"running `argocd app sync`, with optional revision, prune, dry-run, " +
			"force, and timeout parameters.",
		SilenceUsage: true,
	}

	registerConnectionFlags(cmd)

	cmd.Flags().String("revision", "", "Git revision to sync to")
	cmd.Flags().Bool("prune", false, "Delete resources no longer defined in Git")
	cmd.Flags().Bool("dry-run", false, "Preview the sync without applying changes")
	cmd.Flags().Bool("force", false, "Force the sync, which may recreate resources")
	cmd.Flags().Duration("timeout", 0, "Maximum time to wait for the sync")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return handleSyncRunE(cmd, configmanager.NewConfigManager())
	}

	return cmd
}

// handleSyncRunE handles the sync command.
func handleSyncRunE(cmd *cobra.Command, cfgManager *configmanager.ConfigManager) error {
	config, err := loadTaskConfig(cmd, cfgManager)
	if err != nil {
		return err
	}

	taskRunner, err := selectRunner(cmd)
	if err != nil {
		return err
	}

	notify.Activityf(cmd.ErrOrStderr(), "syncing application %s", config.Application)

	output, runErr := task.Sync{
		Connection: config.Connection(),
		Request:    config.SyncRequest(),
		Image:      config.Image,
		Env:        config.Env,
		Runner:     taskRunner,
	}.Run(cmd.Context())

	printErr := printOutput(cmd, output)
	if printErr != nil {
		return printErr
	}

	if runErr != nil {
		return fmt.Errorf("failed to sync application: %w", runErr)
	}

	reportSyncOutcome(cmd.ErrOrStderr(), config.Application, output, config.DryRun)

	return nil
}

// printOutput writes the structured task output as indented JSON to stdout,
// keeping stdout machine-readable; human-facing messages go to stderr.
func printOutput(cmd *cobra.Command, output any) error {
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encode task output: %w", err)
	}

	cmd.Println(string(encoded))

	return nil
}
