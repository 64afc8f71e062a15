// Package shell runs command scripts directly on the host through /bin/sh,
// for environments where no container substrate is available.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/kestra-io/plugin-argocd/pkg/runner"
)

const defaultShell = "/bin/sh"

// Runner executes scripts as a single host shell process. The script's Image
// field is ignored.
type Runner struct {
	shell string
}

var _ runner.Runner = (*Runner)(nil)

// NewRunner creates a host shell runner.
func NewRunner() *Runner {
	return &Runner{shell: defaultShell}
}

// Run executes the script with /bin/sh -c, streaming stdout and stderr lines
// to the consumer. The script environment extends the host environment. A
// non-zero exit status returns runner.ErrNonZeroExit with the populated
// result.
func (r *Runner) Run(
	ctx context.Context,
	script runner.Script,
	consumer runner.LogConsumer,
) (runner.Result, error) {
	cmd := exec.CommandContext(ctx, r.shell, "-c", script.ShellSource())
	cmd.Env = appendEnv(os.Environ(), script.Env)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return runner.Result{}, fmt.Errorf("open stdout pipe: %w", err)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return runner.Result{}, fmt.Errorf("open stderr pipe: %w", err)
	}

	startErr := cmd.Start()
	if startErr != nil {
		return runner.Result{}, fmt.Errorf("start shell: %w", startErr)
	}

	result := runner.Result{}

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		lineCount, forwardErr := runner.ForwardLines(stdoutPipe, false, consumer)
		result.StdOutLineCount = lineCount

		return forwardErr
	})

	group.Go(func() error {
		lineCount, forwardErr := runner.ForwardLines(stderrPipe, true, consumer)
		result.StdErrLineCount = lineCount

		return forwardErr
	})

	streamErr := group.Wait()

	waitErr := cmd.Wait()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()

			return result, fmt.Errorf(
				"%w: exit code %d",
				runner.ErrNonZeroExit,
				result.ExitCode,
			)
		}

		return result, fmt.Errorf("wait for shell: %w", waitErr)
	}

	if streamErr != nil {
		return result, streamErr
	}

	return result, nil
}

func appendEnv(base []string, extra map[string]string) []string {
	env := make([]string, len(base), len(base)+len(extra))
	copy(env, base)

	for key, value := range extra {
		env = append(env, key+"="+value)
	}

	return env
}
