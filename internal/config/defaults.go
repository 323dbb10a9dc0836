package config

import (
	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/notify"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// Default values.
const (
	DefaultRoot         = "public"
	DefaultPackageFile  = "package.json"
	DefaultBuildOutput  = "storybook-static"
	DefaultPort         = 6006
	DefaultBrowserDelay = "3s"
	DefaultHistoryPath  = ".docshelf/history.db"
	DefaultMetricsPath  = "/metrics"
)

// DefaultBuildCommand builds a Storybook site.
var DefaultBuildCommand = []string{"npx", "storybook", "build"}

// Defaults returns a fully defaulted configuration.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Publish.Root == "" {
		cfg.Publish.Root = DefaultRoot
	}
	if cfg.Publish.PackageFile == "" {
		cfg.Publish.PackageFile = DefaultPackageFile
	}
	if cfg.Publish.AliasMode == "" {
		cfg.Publish.AliasMode = alias.ModeSymlink
	}
	if cfg.Publish.SortOrder == "" {
		cfg.Publish.SortOrder = versioning.SortLexical
	}

	if len(cfg.Build.Command) == 0 {
		cfg.Build.Command = append([]string(nil), DefaultBuildCommand...)
	}
	if cfg.Build.Dir == "" {
		cfg.Build.Dir = "."
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = DefaultBuildOutput
	}

	if cfg.Serve.Port == 0 {
		cfg.Serve.Port = DefaultPort
	}
	if cfg.Serve.OpenBrowser == nil {
		cfg.Serve.OpenBrowser = boolPtr(true)
	}
	if cfg.Serve.BrowserDelay == "" {
		cfg.Serve.BrowserDelay = DefaultBrowserDelay
	}
	if cfg.Serve.Watch == nil {
		cfg.Serve.Watch = boolPtr(true)
	}

	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = notify.DefaultSubject
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

func boolPtr(b bool) *bool { return &b }
