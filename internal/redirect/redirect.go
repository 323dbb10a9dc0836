// Package redirect writes the root index.html that forwards visitors to the
// newest published version.
package redirect

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// FileName is the redirect page location relative to the publish root.
const FileName = "index.html"

// The meta refresh targets the version known at publish time. The script
// re-reads the manifest so a stale page still lands on the current latest.
var page = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta http-equiv="refresh" content="0; URL=/{{.Version}}/">
  <title>Redirecting...</title>
</head>
<body>
  <script>
    fetch("/{{.Manifest}}")
      .then(res => res.json())
      .then(data => {
        window.location.href = "/" + data.latest + "/";
      })
      .catch(() => {
        window.location.href = "/{{.Fallback}}/";
      });
  </script>
</body>
</html>
`))

// Render returns the redirect page for version.
func Render(version string) ([]byte, error) {
	if !versioning.IsIdentifier(version) {
		return nil, derrors.ValidationError("redirect target is not a version identifier").
			WithContext("version", version).
			Build()
	}
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Version  string
		Manifest string
		Fallback string
	}{version, manifest.FileName, "latest"})
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "render redirect page").Build()
	}
	return buf.Bytes(), nil
}

// Write renders the redirect page into root.
func Write(root, version string) error {
	data, err := Render(version)
	if err != nil {
		return err
	}
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write redirect page").
			WithContext("path", path).
			Build()
	}
	return nil
}
