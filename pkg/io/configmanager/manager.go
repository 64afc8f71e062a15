// Package configmanager resolves task configuration from a config file,
// ARGOCD_-prefixed environment variables, and command flags through Viper,
// with priority defaults < file < environment < flags.
package configmanager

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kestra-io/plugin-argocd/pkg/client/argocd"
)

const (
	configName = "argocd-task"
	envPrefix  = "ARGOCD"
)

// ErrUnknownConfigKey is returned when the config file contains a key the
// task configuration does not recognize.
var ErrUnknownConfigKey = errors.New("configmanager: unknown configuration key")

// TaskConfig is the full configuration surface of the plugin tasks. The
// connection fields apply to both operations; the remaining fields are
// operation-specific and ignored by the other operation.
type TaskConfig struct {
	Server        string            `mapstructure:"server"`
	Token         string            `mapstructure:"token"`
	Application   string            `mapstructure:"application"`
	Insecure      bool              `mapstructure:"insecure"`
	Plaintext     bool              `mapstructure:"plaintext"`
	GRPCWeb       bool              `mapstructure:"grpcWeb"`
	ServerCert    string            `mapstructure:"serverCert"`
	ArgoCDVersion string            `mapstructure:"argoCDVersion"`
	Image         string            `mapstructure:"image"`
	Env           map[string]string `mapstructure:"env"`
	Revision      string            `mapstructure:"revision"`
	Prune         bool              `mapstructure:"prune"`
	DryRun        bool              `mapstructure:"dryRun"`
	Force         bool              `mapstructure:"force"`
	Timeout       time.Duration     `mapstructure:"timeout"`
	Refresh       bool              `mapstructure:"refresh"`
}

// Connection builds the connection value for the loaded configuration.
func (c *TaskConfig) Connection() argocd.Connection {
	return argocd.Connection{
		Server:     c.Server,
		AuthToken:  c.Token,
		Insecure:   c.Insecure,
		Plaintext:  c.Plaintext,
		GRPCWeb:    c.GRPCWeb,
		ServerCert: c.ServerCert,
		Version:    c.ArgoCDVersion,
	}
}

// SyncRequest builds the sync request for the loaded configuration.
func (c *TaskConfig) SyncRequest() argocd.SyncRequest {
	return argocd.SyncRequest{
		Application: c.Application,
		Revision:    c.Revision,
		Prune:       c.Prune,
		DryRun:      c.DryRun,
		Force:       c.Force,
		Timeout:     c.Timeout,
	}
}

// StatusRequest builds the status request for the loaded configuration.
func (c *TaskConfig) StatusRequest() argocd.StatusRequest {
	return argocd.StatusRequest{
		Application: c.Application,
		Refresh:     c.Refresh,
	}
}

// ConfigManager loads TaskConfig values. Create one per command invocation;
// nothing is shared between instances.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *TaskConfig
}

// NewConfigManager creates a configuration manager with defaults registered
// for every key, an argocd-task config file lookup in the working directory,
// and ARGOCD_ environment variable resolution.
func NewConfigManager() *ConfigManager {
	viperInstance := viper.New()
	viperInstance.SetConfigName(configName)
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.AutomaticEnv()

	for key, value := range defaultValues() {
		viperInstance.SetDefault(key, value)
	}

	return &ConfigManager{
		Viper:  viperInstance,
		Config: &TaskConfig{},
	}
}

// AddConfigPath adds a directory to the config file search path.
func (m *ConfigManager) AddConfigPath(path string) {
	m.Viper.AddConfigPath(path)
}

// BindFlag binds a configuration key to a command flag so a set flag
// overrides every other source.
func (m *ConfigManager) BindFlag(key string, flag *pflag.Flag) error {
	err := m.Viper.BindPFlag(key, flag)
	if err != nil {
		return fmt.Errorf("bind flag %q: %w", key, err)
	}

	return nil
}

// Load reads the config file when present, validates its keys, and decodes
// the merged settings into a TaskConfig. A missing config file is not an
// error; a file with unknown keys is.
func (m *ConfigManager) Load() (*TaskConfig, error) {
	err := m.readConfigFile()
	if err != nil {
		return nil, err
	}

	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}

	err = m.Viper.Unmarshal(m.Config, decoderConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return m.Config, nil
}

func (m *ConfigManager) readConfigFile() error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	return m.validateFileKeys(m.Viper.ConfigFileUsed())
}

// validateFileKeys re-reads the config file in isolation so keys introduced
// by flags, defaults, or the environment do not mask typos in the file.
func (m *ConfigManager) validateFileKeys(configFile string) error {
	if configFile == "" {
		return nil
	}

	scratch := viper.New()
	scratch.SetConfigFile(configFile)

	err := scratch.ReadInConfig()
	if err != nil {
		return fmt.Errorf("failed to re-read config file: %w", err)
	}

	known := defaultValues()

	for _, key := range scratch.AllKeys() {
		if strings.HasPrefix(key, "env.") {
			continue
		}

		_, ok := known[key]
		if !ok {
			return fmt.Errorf("%w: %q in %s", ErrUnknownConfigKey, key, configFile)
		}
	}

	return nil
}

// defaultValues maps every recognized (lowercased) configuration key to its
// default. Registering defaults also makes environment-only values visible
// to Unmarshal.
func defaultValues() map[string]any {
	return map[string]any{
		"server":        "",
		"token":         "",
		"application":   "",
		"insecure":      true,
		"plaintext":     false,
		"grpcweb":       false,
		"servercert":    "",
		"argocdversion": "",
		"image":         "",
		"env":           map[string]string{},
		"revision":      "",
		"prune":         false,
		"dryrun":        false,
		"force":         false,
		"timeout":       time.Duration(0),
		"refresh":       false,
	}
}
