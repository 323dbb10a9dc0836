package versioning

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

type packageMetadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReadPackageVersion returns the "version" field of a package manifest such
// as package.json. Comments and trailing commas are tolerated.
func ReadPackageVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryConfig, "read package metadata").
			Fatal().
			WithContext("path", path).
			Build()
	}
	var meta packageMetadata
	if err := json.Unmarshal(jsonc.ToJSON(data), &meta); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryConfig, "parse package metadata").
			Fatal().
			WithContext("path", path).
			Build()
	}
	v := strings.TrimSpace(meta.Version)
	if v == "" {
		return "", derrors.ConfigError("package metadata has no version field").
			WithContext("path", path).
			Build()
	}
	return v, nil
}

// IdentifierFromPackage reads the package version at path and turns it into an identifier.
func IdentifierFromPackage(path string) (string, error) {
	v, err := ReadPackageVersion(path)
	if err != nil {
		return "", err
	}
	return NewIdentifier(v)
}
