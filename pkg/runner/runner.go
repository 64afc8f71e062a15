// Package runner defines the process-runner contract used to execute command
// scripts, plus the result and log-consumer types shared by implementations.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Scanner buffer bounds. CLI tools that emit JSON often print the whole
// payload as a single line, so the line limit has to be generous.
const (
	initialScanBufferSize = 64 * 1024
	maxScanBufferSize     = 4 * 1024 * 1024
)

// ErrNonZeroExit is returned when the executed script exits with a non-zero
// status. The Result accompanying the error still carries the exit code.
var ErrNonZeroExit = errors.New("runner: script exited with non-zero status")

// Script is one self-contained command sequence executed in a single shell
// session, so environment changes such as PATH exports persist across
// commands.
type Script struct {
	// Commands are executed in order; any failure aborts the script.
	Commands []string
	// Image selects the container image for containerized runners. Runners
	// without a container substrate ignore it.
	Image string
	// Env is the environment exposed to the script.
	Env map[string]string
}

// ShellSource renders the script as a single /bin/sh program. The set -e
// prefix makes any failing command abort the remainder.
func (s Script) ShellSource() string {
	return "set -e\n" + strings.Join(s.Commands, "\n")
}

// Result captures what the subprocess reported after the script finished.
type Result struct {
	ExitCode        int
	StdOutLineCount int
	StdErrLineCount int
}

// LogConsumer receives output lines as the script produces them. Runners call
// Accept from multiple goroutines, one per stream; implementations must be
// safe for concurrent use.
type LogConsumer interface {
	Accept(line string, isStdErr bool)
}

// Runner executes a script and streams its output to a consumer. A non-zero
// exit status yields ErrNonZeroExit alongside the populated Result.
type Runner interface {
	Run(ctx context.Context, script Script, consumer LogConsumer) (Result, error)
}

// ForwardLines reads the stream line by line and forwards each line to the
// consumer, returning the number of lines seen. A nil consumer drains the
// stream and only counts.
func ForwardLines(reader io.Reader, isStdErr bool, consumer LogConsumer) (int, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, initialScanBufferSize), maxScanBufferSize)

	lineCount := 0

	for scanner.Scan() {
		lineCount++

		if consumer != nil {
			consumer.Accept(scanner.Text(), isStdErr)
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		return lineCount, fmt.Errorf("scan output stream: %w", scanErr)
	}

	return lineCount, nil
}
