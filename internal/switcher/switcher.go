// Package switcher implements the version switcher shown in the docs shell:
// which versions can be picked, which one starts selected and where a choice
// navigates to.
package switcher

import (
	"net/url"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

const (
	// CookieName stores the last chosen version.
	CookieName = "docshelf-version"
	// PathParam is the only query parameter carried across a switch.
	PathParam = "path"
)

// Options returns the selectable entries: the latest alias followed by every
// version in the manifest. A nil manifest yields no options.
func Options(m *manifest.Manifest) []string {
	if m == nil {
		return nil
	}
	opts := make([]string, 0, len(m.Versions)+1)
	opts = append(opts, alias.Name)
	return append(opts, m.Versions...)
}

// InitialSelection picks the entry selected when the switcher is shown: the
// first segment of urlPath when it names an option, else the stored
// preference when it names an option, else the latest alias.
func InitialSelection(urlPath, stored string, options []string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(urlPath, "/"), "/")
	if segment != "" && slices.Contains(options, segment) {
		return segment
	}
	if stored != "" && slices.Contains(options, stored) {
		return stored
	}
	return alias.Name
}

// RedirectURL returns the navigation target for choice. Of the current query
// only the path parameter survives.
func RedirectURL(choice string, query url.Values) string {
	suffix := ""
	if query.Has(PathParam) {
		suffix = "?" + url.Values{PathParam: {query.Get(PathParam)}}.Encode()
	}
	if choice == alias.Name {
		return "/" + alias.Name + "/" + suffix
	}
	return "/" + choice + "/index.html" + suffix
}
