// Package config loads docshelf configuration from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// DefaultFileName is read when no config path is given.
const DefaultFileName = "docshelf.yaml"

// Config represents the application configuration.
type Config struct {
	Publish PublishConfig `yaml:"publish"`
	Build   BuildConfig   `yaml:"build"`
	Serve   ServeConfig   `yaml:"serve"`
	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// PublishConfig describes where versions are published and how they are named.
type PublishConfig struct {
	Root        string               `yaml:"root"`
	PackageFile string               `yaml:"package_file"`
	AliasMode   alias.Mode           `yaml:"alias_mode"`
	SortOrder   versioning.SortOrder `yaml:"sort_order"`
}

// BuildConfig describes the external site build.
type BuildConfig struct {
	Command []string `yaml:"command"`
	Dir     string   `yaml:"dir"`
	Output  string   `yaml:"output"`
}

// ServeConfig configures the docs server.
type ServeConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	OpenBrowser  *bool  `yaml:"open_browser"`
	BrowserDelay string `yaml:"browser_delay"`
	DevMode      bool   `yaml:"dev_mode"`
	Watch        *bool  `yaml:"watch"`
}

// HistoryConfig enables the SQLite publish history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig enables NATS publish notifications when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// Textfile, when set, receives publish metrics for the node_exporter textfile collector.
	Textfile string `yaml:"textfile"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads configuration from configPath. An empty path reads
// DefaultFileName when it exists; otherwise defaults apply. An explicitly
// named file must exist.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	cfg := &Config{}
	path := configPath
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse config file").
				Fatal().
				WithContext("path", path).
				Build()
		}
	case errors.Is(err, os.ErrNotExist) && configPath == "":
		// no config file; defaults and environment only
	case errors.Is(err, os.ErrNotExist):
		return nil, derrors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	default:
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)
	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if configPath == "" {
		configPath = DefaultFileName
	}
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	example := Defaults()
	example.History.Enabled = true
	example.Notify.NATSURL = "${DOCSHELF_NATS_URL}"

	data, err := yaml.Marshal(example)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "failed to write config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return nil
}
