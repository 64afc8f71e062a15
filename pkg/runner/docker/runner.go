// Package docker runs command scripts inside a one-shot Docker container,
// mirroring how a workflow engine's container task runner executes plugin
// commands.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"golang.org/x/sync/errgroup"

	"github.com/kestra-io/plugin-argocd/pkg/runner"
)

// DefaultImage is the container image used when a script names none. The
// ArgoCD CLI is installed at runtime, so a minimal image with curl suffices.
const DefaultImage = "curlimages/curl:latest"

// ErrAPIClientNil is returned when the runner is constructed without a Docker
// API client.
var ErrAPIClientNil = errors.New("docker: apiClient cannot be nil")

// Runner executes scripts in disposable containers via the Docker API.
type Runner struct {
	apiClient client.APIClient
}

var _ runner.Runner = (*Runner)(nil)

// NewRunner creates a runner backed by the provided Docker API client.
func NewRunner(apiClient client.APIClient) (*Runner, error) {
	if apiClient == nil {
		return nil, ErrAPIClientNil
	}

	return &Runner{apiClient: apiClient}, nil
}

// NewEnvRunner creates a runner whose Docker client is configured from the
// environment (DOCKER_HOST and friends), with API version negotiation.
func NewEnvRunner() (*Runner, error) {
	apiClient, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Runner{apiClient: apiClient}, nil
}

// Run executes the script in a fresh container and streams its output to the
// consumer line by line. The container is removed afterwards regardless of
// the outcome. A non-zero exit status returns runner.ErrNonZeroExit together
// with the populated result.
func (r *Runner) Run(
	ctx context.Context,
	script runner.Script,
	consumer runner.LogConsumer,
) (runner.Result, error) {
	imageName := script.Image
	if imageName == "" {
		imageName = DefaultImage
	}

	err := r.ensureImage(ctx, imageName)
	if err != nil {
		return runner.Result{}, err
	}

	containerID, err := r.createContainer(ctx, imageName, script)
	if err != nil {
		return runner.Result{}, err
	}

	defer func() {
		_ = r.apiClient.ContainerRemove(
			context.WithoutCancel(ctx),
			containerID,
			container.RemoveOptions{Force: true},
		)
	}()

	// Register the wait before starting so the exit status cannot be missed.
	statusCh, waitErrCh := r.apiClient.ContainerWait(
		ctx,
		containerID,
		container.WaitConditionNotRunning,
	)

	startErr := r.apiClient.ContainerStart(ctx, containerID, container.StartOptions{})
	if startErr != nil {
		return runner.Result{}, fmt.Errorf("start container: %w", startErr)
	}

	result := runner.Result{}

	streamErr := r.streamLogs(ctx, containerID, consumer, &result)

	// Record the exit code before inspecting stream errors so a log
	// forwarding failure cannot mask how the container exited.
	exitCode, waitErr := awaitExit(statusCh, waitErrCh)
	result.ExitCode = exitCode

	if waitErr != nil {
		return result, waitErr
	}

	if streamErr != nil {
		return result, streamErr
	}

	if exitCode != 0 {
		return result, fmt.Errorf("%w: exit code %d", runner.ErrNonZeroExit, exitCode)
	}

	return result, nil
}

// ensureImage pulls the image if not already present locally.
func (r *Runner) ensureImage(ctx context.Context, imageName string) error {
	_, err := r.apiClient.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}

	reader, err := r.apiClient.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %q: %w", imageName, err)
	}

	defer func() { _ = reader.Close() }()

	// Consume pull output to complete the operation
	_, err = io.Copy(io.Discard, reader)
	if err != nil {
		return fmt.Errorf("read pull output: %w", err)
	}

	return nil
}

func (r *Runner) createContainer(
	ctx context.Context,
	imageName string,
	script runner.Script,
) (string, error) {
	containerConfig := &container.Config{
		Image: imageName,
		Cmd:   []string{"/bin/sh", "-c", script.ShellSource()},
		Env:   renderEnv(script.Env),
		Labels: map[string]string{
			"io.kestra.plugin/name": "plugin-argocd",
		},
	}

	resp, err := r.apiClient.ContainerCreate(ctx, containerConfig, nil, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}

	return resp.ID, nil
}

// streamLogs demultiplexes the container log stream and forwards stdout and
// stderr lines to the consumer on separate goroutines, recording line counts
// in the result.
func (r *Runner) streamLogs(
	ctx context.Context,
	containerID string,
	consumer runner.LogConsumer,
	result *runner.Result,
) error {
	logs, err := r.apiClient.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("attach container logs: %w", err)
	}

	defer func() { _ = logs.Close() }()

	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()

	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		_, copyErr := stdcopy.StdCopy(stdoutWriter, stderrWriter, logs)

		_ = stdoutWriter.CloseWithError(copyErr)
		_ = stderrWriter.CloseWithError(copyErr)

		if copyErr != nil {
			return fmt.Errorf("demultiplex container logs: %w", copyErr)
		}

		return nil
	})

	group.Go(func() error {
		lineCount, forwardErr := runner.ForwardLines(stdoutReader, false, consumer)
		result.StdOutLineCount = lineCount

		// Unblock the demultiplexer if forwarding stopped early.
		_ = stdoutReader.CloseWithError(forwardErr)

		return forwardErr
	})

	group.Go(func() error {
		lineCount, forwardErr := runner.ForwardLines(stderrReader, true, consumer)
		result.StdErrLineCount = lineCount

		_ = stderrReader.CloseWithError(forwardErr)

		return forwardErr
	})

	return group.Wait()
}

func awaitExit(
	statusCh <-chan container.WaitResponse,
	errCh <-chan error,
) (int, error) {
	select {
	case waitErr := <-errCh:
		return 0, fmt.Errorf("wait for container: %w", waitErr)
	case status := <-statusCh:
		if status.Error != nil {
			return int(status.StatusCode), errors.New(status.Error.Message)
		}

		return int(status.StatusCode), nil
	}
}

// renderEnv converts the env map to Docker's KEY=value form, sorted so the
// container configuration is deterministic.
func renderEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	rendered := make([]string, 0, len(env))

	for key, value := range env {
		rendered = append(rendered, key+"="+value)
	}

	slices.Sort(rendered)

	return rendered
}
