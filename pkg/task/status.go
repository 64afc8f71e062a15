package task

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
	"github.com/kestra-io/plugin-argocd/pkg/runner"
)

// Status queries an ArgoCD application's current synchronization and health
// state by running `argocd app get` through a process runner.
type Status struct {
	// Connection describes the target ArgoCD server.
	Connection argocd.Connection
	// Request holds the status-specific parameters.
	Request argocd.StatusRequest
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

// StatusOutput is the structured result of one status query. Conditions are
// status-only; the revision an operation synced to is reported by Sync.
type StatusOutput struct {
	ExitCode        int              `json:"exitCode"`
	StdOutLineCount int              `json:"stdOutLineCount"`
	StdErrLineCount int              `json:"stdErrLineCount"`
	SyncStatus      string           `json:"syncStatus,omitempty"`
	HealthStatus    string           `json:"healthStatus,omitempty"`
	Conditions      []map[string]any `json:"conditions,omitempty"`
	Resources       []map[string]any `json:"resources,omitempty"`
	RawOutput       string           `json:"rawOutput"`
}

// Run executes the status task once. Error semantics match Sync.Run:
// configuration errors abort early, subprocess failures propagate with the
// output attached, parse failures only degrade to raw text.
func (t Status) Run(ctx context.Context) (StatusOutput, error) {
	command, err := argocd.BuildStatusCommand(t.Connection, t.Request)
	if err != nil {
		return StatusOutput{}, fmt.Errorf("build status command: %w", err)
	}

	taskRunner, err := resolveRunner(t.Runner)
	if err != nil {
		return StatusOutput{}, fmt.Errorf("resolve runner: %w", err)
	}

	logger := resolveLogger(t.Logger)
	consumer := newCaptureConsumer(logger)
	script := assembleScript(t.Connection, t.Image, t.Env, command)

	result, runErr := taskRunner.Run(ctx, script, consumer)

	outcome := argocd.ParseOutcome(consumer.Stdout())
	if !outcome.Parsed && outcome.RawOutput != "" {
		logger.Warnf("failed to parse ArgoCD output as JSON")
	}

	output := StatusOutput{
		ExitCode:        result.ExitCode,
		StdOutLineCount: result.StdOutLineCount,
		StdErrLineCount: result.StdErrLineCount,
		SyncStatus:      outcome.SyncStatus,
		HealthStatus:    outcome.HealthStatus,
		Conditions:      outcome.Conditions,
		Resources:       outcome.Resources,
		RawOutput:       outcome.RawOutput,
	}

	if runErr != nil {
		return output, fmt.Errorf(
			"get status of application %q: %w",
			t.Request.Application,
			runErr,
		)
	}

	logger.Infof(
		"ArgoCD status retrieved - sync: %s, health: %s",
		outcome.SyncStatus,
		outcome.HealthStatus,
	)

	return output, nil
}
