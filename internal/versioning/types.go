// Package versioning derives version identifiers from package metadata and
// orders the identifiers found in a publish root.
package versioning

import "strings"

// Prefix starts every version identifier.
const Prefix = "v"

// SortOrder selects how version listings are ordered.
type SortOrder string

const (
	// SortLexical orders identifiers as plain strings. Multi-digit components
	// sort by character, so v10.0.0 lands below v2.0.0 in a descending list.
	SortLexical SortOrder = "lexical"

	// SortSemver orders identifiers by semantic version precedence.
	SortSemver SortOrder = "semver"
)

// Trim returns the semantic version part of an identifier.
func Trim(id string) string {
	return strings.TrimPrefix(id, Prefix)
}
