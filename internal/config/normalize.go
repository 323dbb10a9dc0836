package config

import (
	"errors"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/foundation/normalization"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

var aliasModeNormalizer = normalization.NewNormalizer("alias mode", map[string]alias.Mode{
	"symlink":  alias.ModeSymlink,
	"link":     alias.ModeSymlink,
	"junction": alias.ModeSymlink,
	"copy":     alias.ModeCopy,
}, alias.ModeSymlink)

var sortOrderNormalizer = normalization.NewNormalizer("sort order", map[string]versioning.SortOrder{
	"lexical": versioning.SortLexical,
	"string":  versioning.SortLexical,
	"semver":  versioning.SortSemver,
}, versioning.SortLexical)

// Normalize canonicalizes enum fields. Unknown values are configuration errors.
func Normalize(cfg *Config) error {
	var errs []error

	if v, err := aliasModeNormalizer.NormalizeWithError(string(cfg.Publish.AliasMode)); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Publish.AliasMode = v
	}
	if v, err := sortOrderNormalizer.NormalizeWithError(string(cfg.Publish.SortOrder)); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Publish.SortOrder = v
	}
	if v, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level)); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Logging.Level = v
	}
	if v, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format)); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Logging.Format = v
	}

	if len(errs) > 0 {
		return derrors.WrapError(errors.Join(errs...), derrors.CategoryConfig, "invalid configuration value").
			Fatal().
			Build()
	}
	return nil
}
