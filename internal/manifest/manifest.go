// Package manifest reads and writes versions.json, the record of published
// versions kept at the top of a publish root.
package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

// FileName is the manifest location relative to the publish root.
const FileName = "versions.json"

// ErrNoLatest is returned by Validate when the latest field is empty.
var ErrNoLatest = errors.New("manifest has no latest version")

// Manifest lists every published version and names the current one.
type Manifest struct {
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

// Path returns the manifest path inside root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Validate reports whether the manifest names a latest version.
func (m *Manifest) Validate() error {
	if m == nil || m.Latest == "" {
		return ErrNoLatest
	}
	return nil
}

// Read loads the manifest from root. A missing file yields an error wrapping
// os.ErrNotExist; malformed JSON yields a CategoryManifest error.
func Read(root string) (*Manifest, error) {
	path := Path(root)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryManifest, "read manifest").
			WithContext("path", path).
			Build()
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryManifest, "parse manifest").
			WithContext("path", path).
			Build()
	}
	return &m, nil
}

// Write replaces the manifest in root with m, indented by two spaces.
func Write(root string, m Manifest) error {
	if m.Versions == nil {
		m.Versions = []string{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryInternal, "encode manifest").Build()
	}
	path := Path(root)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryManifest, "write manifest").
			WithContext("path", path).
			Build()
	}
	return nil
}
