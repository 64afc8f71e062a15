package task

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
	"github.com/kestra-io/plugin-argocd/pkg/runner"
)

// Sync triggers convergence of an ArgoCD application to its declared Git
// state by running `argocd app sync` through a process runner.
type Sync struct {
	// Connection describes the target ArgoCD server.
	Connection argocd.Connection
	// Request holds the sync-specific parameters.
	Request argocd.SyncRequest
	// Image overrides the container image for containerized runners.
	Image string
	// Env is passed through to the execution environment.
	Env map[string]string
	// Runner executes the assembled script. Nil selects a Docker runner
	// configured from the environment.
	Runner runner.Runner
	// Logger receives diagnostics: stderr passthrough and parse warnings.
	// Nil selects the standard logrus logger.
	Logger logrus.FieldLogger
}

// SyncOutput is the structured result of one sync execution. The parsed
// fields are empty when the CLI output could not be decoded; RawOutput is
// always populated.
type SyncOutput struct {
	ExitCode        int              `json:"exitCode"`
	StdOutLineCount int              `json:"stdOutLineCount"`
	StdErrLineCount int              `json:"stdErrLineCount"`
	SyncStatus      string           `json:"syncStatus,omitempty"`
	HealthStatus    string           `json:"healthStatus,omitempty"`
	Revision        string           `json:"revision,omitempty"`
	Resources       []map[string]any `json:"resources,omitempty"`
	RawOutput       string           `json:"rawOutput"`
}

// Run executes the sync task once. Configuration errors abort before any
// subprocess runs; subprocess failures are returned with the output still
// populated; parse failures only degrade the output to raw text.
func (t Sync) Run(ctx context.Context) (SyncOutput, error) {
	command, err := argocd.BuildSyncCommand(t.Connection, t.Request)
	if err != nil {
		return SyncOutput{}, fmt.Errorf("build sync command: %w", err)
	}

	taskRunner, err := resolveRunner(t.Runner)
	if err != nil {
		return SyncOutput{}, fmt.Errorf("resolve runner: %w", err)
	}

	logger := resolveLogger(t.Logger)
	consumer := newCaptureConsumer(logger)
	script := assembleScript(t.Connection, t.Image, t.Env, command)

	result, runErr := taskRunner.Run(ctx, script, consumer)

	outcome := argocd.ParseOutcome(consumer.Stdout())
	if !outcome.Parsed && outcome.RawOutput != "" {
		logger.Warnf("failed to parse ArgoCD output as JSON")
	}

	output := SyncOutput{
		ExitCode:        result.ExitCode,
		StdOutLineCount: result.StdOutLineCount,
		StdErrLineCount: result.StdErrLineCount,
		SyncStatus:      outcome.SyncStatus,
		HealthStatus:    outcome.HealthStatus,
		Revision:        outcome.Revision,
		Resources:       outcome.Resources,
		RawOutput:       outcome.RawOutput,
	}

	if runErr != nil {
		return output, fmt.Errorf("sync application %q: %w", t.Request.Application, runErr)
	}

	logger.Infof(
		"ArgoCD sync completed - status: %s, health: %s",
		outcome.SyncStatus,
		outcome.HealthStatus,
	)

	return output, nil
}
