package argocd

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// archProbe maps the container's architecture to the ArgoCD release asset
// naming at runtime, so one script works on amd64 and arm64 hosts.
const archProbe = `$(uname -m | sed 's/x86_64/amd64/;s/aarch64/arm64/')`

// ErrApplicationRequired is returned when a request names no application.
var ErrApplicationRequired = errors.New("argocd: application is required")

// SyncRequest describes a single `argocd app sync` invocation. The boolean
// flags are independent and may combine freely.
type SyncRequest struct {
	// Application is the ArgoCD application to synchronize.
	Application string
	// Revision is an optional Git commit, tag, or branch to sync to. When
	// empty, ArgoCD uses the tracked revision.
	Revision string
	// Prune deletes resources that are no longer defined in Git.
	Prune bool
	// DryRun previews the sync without applying changes.
	DryRun bool
	// Force forces the sync, which may recreate resources.
	Force bool
	// Timeout bounds how long the CLI waits for the operation, rendered in
	// whole seconds. Zero means no --timeout flag.
	Timeout time.Duration
}

// Validate checks the request for a target application.
func (r SyncRequest) Validate() error {
	if strings.TrimSpace(r.Application) == "" {
		return ErrApplicationRequired
	}

	return nil
}

// StatusRequest describes a single `argocd app get` invocation.
type StatusRequest struct {
	// Application is the ArgoCD application to query.
	Application string
	// Refresh forces a refresh from the cluster instead of serving cached
	// state.
	Refresh bool
}

// Validate checks the request for a target application.
func (r StatusRequest) Validate() error {
	if strings.TrimSpace(r.Application) == "" {
		return ErrApplicationRequired
	}

	return nil
}

// BuildSyncCommand renders the full `argocd app sync` command line for the
// given connection and request. Optional flags keep a fixed order regardless
// of which ones are set: revision, prune, dry-run, force, timeout, then the
// JSON output flag.
func BuildSyncCommand(conn Connection, req SyncRequest) (string, error) {
	err := req.Validate()
	if err != nil {
		return "", err
	}

	connArgs, err := conn.Args()
	if err != nil {
		return "", err
	}

	var cmd strings.Builder

	cmd.WriteString("argocd app sync ")
	cmd.WriteString(req.Application)
	cmd.WriteString(connArgs)

	if req.Revision != "" {
		cmd.WriteString(" --revision ")
		cmd.WriteString(req.Revision)
	}

	if req.Prune {
		cmd.WriteString(" --prune")
	}

	if req.DryRun {
		cmd.WriteString(" --dry-run")
	}

	if req.Force {
		cmd.WriteString(" --force")
	}

	if req.Timeout != 0 {
		cmd.WriteString(" --timeout ")
		cmd.WriteString(strconv.Itoa(int(req.Timeout.Seconds())))
	}

	cmd.WriteString(" --output json")

	return cmd.String(), nil
}

// BuildStatusCommand renders the full `argocd app get` command line for the
// given connection and request.
func BuildStatusCommand(conn Connection, req StatusRequest) (string, error) {
	err := req.Validate()
	if err != nil {
		return "", err
	}

	connArgs, err := conn.Args()
	if err != nil {
		return "", err
	}

	var cmd strings.Builder

	cmd.WriteString("argocd app get ")
	cmd.WriteString(req.Application)
	cmd.WriteString(connArgs)

	if req.Refresh {
		cmd.WriteString(" --refresh")
	}

	cmd.WriteString(" --output json")

	return cmd.String(), nil
}

// InstallCommands returns the bootstrap steps that download the ArgoCD CLI
// into the execution environment and put it on PATH. A pinned Version selects
// a tagged release; otherwise the latest release is used.
func InstallCommands(conn Connection) []string {
	downloadURL := "https://github.com/argoproj/argo-cd/releases/latest/download/argocd-linux-" + archProbe
	if conn.Version != "" {
		downloadURL = "https://github.com/argoproj/argo-cd/releases/download/v" +
			conn.Version + "/argocd-linux-" + archProbe
	}

	return []string{
		"curl -sSL -o /tmp/argocd " + downloadURL,
		"chmod +x /tmp/argocd",
		"export PATH=$PATH:/tmp",
	}
}

// CertCommands returns the certificate staging step, or nothing when no
// server certificate is configured. The certificate travels via environment
// variable and is written to ServerCertPath before any command references it.
func CertCommands(conn Connection) []string {
	if conn.ServerCert == "" {
		return nil
	}

	return []string{
		`printf '%s' "$` + ServerCertEnvVar + `" > ` + ServerCertPath,
	}
}

// EnvVars merges caller-supplied environment variables with the certificate
// staging variable when a server certificate is configured.
func EnvVars(conn Connection, extra map[string]string) map[string]string {
	envVars := make(map[string]string, len(extra)+1)

	for key, value := range extra {
		envVars[key] = value
	}

	if conn.ServerCert != "" {
		envVars[ServerCertEnvVar] = conn.ServerCert
	}

	return envVars
}
