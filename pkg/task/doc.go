// Package task provides the runnable ArgoCD plugin tasks: Sync converges an
// application to its declared Git state and Status queries its current
// synchronization and health state.
//
// A task is a one-shot value: build it, call Run once, discard it. Tasks own
// the ordering contract install → certificate staging → domain command and
// the stream separation contract: stdout is accumulated for parsing, stderr
// is forwarded to diagnostic logging only.
package task
