// Package cmd wires the argocd-task command tree: a root command with sync
// and status subcommands mirroring the plugin tasks.
package cmd
