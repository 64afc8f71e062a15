package argocd

import (
	"errors"
	"strings"
)

const (
	// ServerCertPath is where the PEM server certificate is staged inside the
	// execution environment before any command references it.
	ServerCertPath = "/tmp/argocd-server.crt"

	// ServerCertEnvVar carries the PEM certificate content into the execution
	// environment so the staging command can write it to ServerCertPath.
	ServerCertEnvVar = "ARGOCD_SERVER_CERT"
)

// Error definitions for connection validation.
var (
	// ErrServerRequired is returned when no API server address is configured.
	ErrServerRequired = errors.New("argocd: server is required")

	// ErrTokenRequired is returned when no authentication token is configured.
	ErrTokenRequired = errors.New("argocd: auth token is required")
)

// Connection describes how to reach an ArgoCD API server. It is a plain value
// built once per task execution; nothing is shared or mutated across runs.
type Connection struct {
	// Server is the API server address, with or without an http(s) scheme.
	Server string
	// AuthToken is the bearer token used for API access.
	AuthToken string
	// Insecure skips TLS certificate verification.
	Insecure bool
	// Plaintext connects over HTTP instead of HTTPS.
	Plaintext bool
	// GRPCWeb uses the gRPC-web transport, for servers behind HTTP/1 proxies.
	GRPCWeb bool
	// ServerCert is the PEM-encoded server certificate. It is staged to
	// ServerCertPath and referenced by path, never inlined into a command.
	ServerCert string
	// Version pins the ArgoCD CLI release to download. Empty means latest.
	Version string
}

// NewConnection creates a connection with the default transport settings.
// TLS verification is skipped by default, matching the CLI's common use
// against self-signed ArgoCD installations.
func NewConnection(server, authToken string) Connection {
	return Connection{
		Server:    server,
		AuthToken: authToken,
		Insecure:  true,
	}
}

// Validate checks that the fields every command needs are present.
func (c Connection) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return ErrServerRequired
	}

	if strings.TrimSpace(c.AuthToken) == "" {
		return ErrTokenRequired
	}

	return nil
}

// Args renders the connection argument block appended to every app command.
// The order is fixed: --server, --auth-token, then the conditional transport
// flags. The rendered server address never carries a scheme prefix.
func (c Connection) Args() (string, error) {
	err := c.Validate()
	if err != nil {
		return "", err
	}

	var args strings.Builder

	args.WriteString(" --server ")
	args.WriteString(stripScheme(c.Server))
	args.WriteString(" --auth-token ")
	args.WriteString(c.AuthToken)

	if c.Insecure {
		args.WriteString(" --insecure")
	}

	if c.Plaintext {
		args.WriteString(" --plaintext")
	}

	if c.GRPCWeb {
		args.WriteString(" --grpc-web")
	}

	if c.ServerCert != "" {
		args.WriteString(" --server-crt ")
		args.WriteString(ServerCertPath)
	}

	return args.String(), nil
}

func stripScheme(server string) string {
	if stripped, ok := strings.CutPrefix(server, "https://"); ok {
		return stripped
	}

	if stripped, ok := strings.CutPrefix(server, "http://"); ok {
		return stripped
	}

	return server
}
