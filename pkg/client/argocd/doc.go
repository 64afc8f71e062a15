// Package argocd builds ArgoCD CLI invocations from typed configuration and
// scrapes the CLI's JSON output back into structured results.
//
// The package owns no execution: it renders command strings for a process
// runner and parses whatever text comes back. Sync and health evaluation live
// entirely in the ArgoCD CLI/server.
package argocd
