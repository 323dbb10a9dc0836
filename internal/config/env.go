package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// Environment variables that override file values.
const (
	EnvPort      = "PORT"
	EnvRoot      = "DOCSHELF_ROOT"
	EnvAliasMode = "DOCSHELF_ALIAS_MODE"
	EnvSortOrder = "DOCSHELF_SORT_ORDER"
	EnvNATSURL   = "DOCSHELF_NATS_URL"
	EnvLogLevel  = "DOCSHELF_LOG_LEVEL"
	EnvLogFormat = "DOCSHELF_LOG_FORMAT"
)

// envFiles are loaded in order; variables already set are never overridden.
var envFiles = []string{".env", ".env.local"}

func loadEnvFile() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("Could not load env file", slog.String("file", f), slog.Any("error", err))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", f))
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Serve.Port = port
		} else {
			slog.Warn("Ignoring invalid port from environment", slog.String("env", EnvPort), slog.String("value", v))
		}
	}
	if v := os.Getenv(EnvRoot); v != "" {
		cfg.Publish.Root = v
	}
	if v := os.Getenv(EnvAliasMode); v != "" {
		cfg.Publish.AliasMode = alias.Mode(v)
	}
	if v := os.Getenv(EnvSortOrder); v != "" {
		cfg.Publish.SortOrder = versioning.SortOrder(v)
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		cfg.Notify.NATSURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = LogFormat(v)
	}
}
