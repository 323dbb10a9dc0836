package versioning

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

// corePattern accepts MAJOR.MINOR.PATCH with optional pre-release and build
// metadata. Core numbers may be zero-padded so lexical order can match
// release order (v1.02.0 < v1.10.0).
var corePattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)((?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?)$`)

// Parse parses raw (without the "v" prefix) as a semantic version. Leading
// zeros in the core numbers are accepted and ignored.
func Parse(raw string) (*semver.Version, error) {
	m := corePattern.FindStringSubmatch(raw)
	if m == nil {
		return semver.StrictNewVersion(raw)
	}
	parts := make([]string, 0, 3)
	for _, n := range m[1:4] {
		v, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return nil, err
		}
		parts = append(parts, strconv.FormatUint(v, 10))
	}
	return semver.StrictNewVersion(strings.Join(parts, ".") + m[4])
}

// NewIdentifier returns "v" followed by raw, unchanged. raw must be a valid
// semantic version without a leading "v"; zero-padded core numbers are kept as given.
func NewIdentifier(raw string) (string, error) {
	if _, err := Parse(raw); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryConfig, "invalid package version").
			Fatal().
			WithContext("version", raw).
			Build()
	}
	return Prefix + raw, nil
}

// IsIdentifier reports whether name looks like a published version directory.
func IsIdentifier(name string) bool {
	if !strings.HasPrefix(name, Prefix) {
		return false
	}
	_, err := Parse(name[len(Prefix):])
	return err == nil
}
