package serve

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

// ResolveLatest returns the version to serve. When the manifest is missing,
// unparsable or names no latest version it returns the latest alias together
// with the reason for falling back.
func ResolveLatest(root string) (string, error) {
	m, err := manifest.Read(root)
	if err != nil {
		return alias.Name, err
	}
	if err := m.Validate(); err != nil {
		return alias.Name, err
	}
	return m.Latest, nil
}

// Validate checks that root/version is a directory, following the alias link.
func Validate(root, version string) error {
	dir := filepath.Join(root, version)
	st, err := os.Stat(dir)
	if err == nil && st.IsDir() {
		return nil
	}
	if err == nil {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	return derrors.WrapError(err, derrors.CategoryNotFound, "version directory not found").
		Fatal().
		WithContext("path", dir).
		WithContext("version", version).
		Build()
}
