package task

import (
	"github.com/sirupsen/logrus"

	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
	"github.com/kestra-io/plugin-argocd/pkg/runner"
	dockerrunner "github.com/kestra-io/plugin-argocd/pkg/runner/docker"
)

// assembleScript builds the full command sequence for one task execution:
// CLI install steps, the optional certificate staging step, then the domain
// command, in that order.
func assembleScript(
	conn argocd.Connection,
	image string,
	env map[string]string,
	command string,
) runner.Script {
	commands := argocd.InstallCommands(conn)
	commands = append(commands, argocd.CertCommands(conn)...)
	commands = append(commands, command)

	return runner.Script{
		Commands: commands,
		Image:    image,
		Env:      argocd.EnvVars(conn, env),
	}
}

// resolveRunner returns the configured runner, defaulting to a Docker runner
// built from the environment.
func resolveRunner(configured runner.Runner) (runner.Runner, error) {
	if configured != nil {
		return configured, nil
	}

	return dockerrunner.NewEnvRunner()
}

// resolveLogger returns the configured logger, defaulting to the standard
// logrus logger.
func resolveLogger(configured logrus.FieldLogger) logrus.FieldLogger {
	if configured != nil {
		return configured
	}

	return logrus.StandardLogger()
}
