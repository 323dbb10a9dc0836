package manifest

import (
	"os"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// ScanVersions lists the real directories in root whose names are version
// identifiers, newest first. Symlinks such as the latest alias are skipped.
func ScanVersions(root string, order versioning.SortOrder) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read publish root").
			WithContext("path", root).
			Build()
	}
	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || !versioning.IsIdentifier(e.Name()) {
			continue
		}
		versions = append(versions, e.Name())
	}
	return versioning.SortDescending(versions, order), nil
}
