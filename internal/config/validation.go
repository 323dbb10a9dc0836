package config

import (
	"fmt"
	"strings"
	"time"

	"git.home.luguber.info/inful/docshelf/internal/foundation"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

var configValidators = foundation.NewValidatorChain(
	func(c *Config) foundation.ValidationResult {
		return foundation.InRange("serve.port", 0, 65535)(c.Serve.Port)
	},
	validateBrowserDelay,
	validateBuildCommand,
	validateMetricsPath,
)

// Validate checks a normalized, defaulted configuration.
func Validate(cfg *Config) error {
	if err := configValidators.Validate(cfg).Err(); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "configuration validation failed").
			Fatal().
			Build()
	}
	return nil
}

func validateBrowserDelay(c *Config) foundation.ValidationResult {
	d, err := time.ParseDuration(c.Serve.BrowserDelay)
	switch {
	case err != nil:
		return foundation.Invalid(foundation.NewFieldError("serve.browser_delay", "duration", err.Error()))
	case d < 0:
		return foundation.Invalid(foundation.NewFieldError("serve.browser_delay", "duration", "must not be negative"))
	}
	return foundation.Valid()
}

func validateBuildCommand(c *Config) foundation.ValidationResult {
	if len(c.Build.Command) == 0 || c.Build.Command[0] == "" {
		return foundation.Invalid(foundation.NewFieldError("build.command", "required", "must name a program"))
	}
	return foundation.Valid()
}

func validateMetricsPath(c *Config) foundation.ValidationResult {
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return foundation.Invalid(foundation.NewFieldError("metrics.path", "format",
			fmt.Sprintf("%q must start with /", c.Metrics.Path)))
	}
	return foundation.Valid()
}

// BrowserDelayDuration returns the parsed serve.browser_delay.
func (s ServeConfig) BrowserDelayDuration() time.Duration {
	d, err := time.ParseDuration(s.BrowserDelay)
	if err != nil {
		return 3 * time.Second
	}
	return d
}
