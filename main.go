// Package main is the entry point for the argocd-task application.
package main

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/kestra-io/plugin-argocd/internal/buildmeta"
	"github.com/kestra-io/plugin-argocd/pkg/cli/cmd"
	"github.com/kestra-io/plugin-argocd/pkg/utils/notify"
)

func main() {
	code := guardPanics(os.Stderr, func() int {
		return execute(os.Args[1:])
	})

	if code != 0 {
		os.Exit(code)
	}
}

// guardPanics converts a panic in fn into an exit code and a stack trace on
// errWriter, so a crashing task still reports a failure.
//
//nolint:nonamedreturns // The named return carries the exit code out of recover.
func guardPanics(errWriter io.Writer, fn func() int) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			notify.Errorf(errWriter, "fatal: %v\n%s", r, debug.Stack())

			exitCode = 1
		}
	}()

	return fn()
}

func execute(args []string) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)

	err := cmd.Execute(rootCmd)
	if err != nil {
		notify.Errorf(rootCmd.ErrOrStderr(), "%v", err)

		return 1
	}

	return 0
}
