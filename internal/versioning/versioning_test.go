package versioning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

func TestNewIdentifierPrefixesVerbatim(t *testing.T) {
	for _, raw := range []string{"1.0.0", "0.12.3", "2.0.0-rc.1", "1.2.3+build.7", "10.20.30-alpha.beta"} {
		id, err := NewIdentifier(raw)
		require.NoError(t, err, raw)
		require.Equal(t, "v"+raw, id)
	}
}

func TestNewIdentifierRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "1.0", "v1.0.0", "latest", "1.0.0.0"} {
		_, err := NewIdentifier(raw)
		require.Error(t, err, raw)
		require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	}
}

func TestNewIdentifierKeepsZeroPadding(t *testing.T) {
	for _, raw := range []string{"1.02.0", "01.2.3", "1.00.010-rc.1"} {
		id, err := NewIdentifier(raw)
		require.NoError(t, err, raw)
		require.Equal(t, "v"+raw, id)
	}
}

func TestParseIgnoresCoreLeadingZeros(t *testing.T) {
	v, err := Parse("1.02.0")
	require.NoError(t, err)
	require.Equal(t, "1.2.0", v.String())

	v, err = Parse("1.10.0-beta.2+build.5")
	require.NoError(t, err)
	require.Equal(t, "beta.2", v.Prerelease())

	_, err = Parse("1.2")
	require.Error(t, err)
}

func TestIsIdentifier(t *testing.T) {
	require.True(t, IsIdentifier("v1.02.0"))
	require.True(t, IsIdentifier("v1.0.0"))
	require.True(t, IsIdentifier("v2.1.0-beta.1"))
	require.False(t, IsIdentifier("latest"))
	require.False(t, IsIdentifier("vendor"))
	require.False(t, IsIdentifier("1.0.0"))
	require.False(t, IsIdentifier("vv1.0.0"))
	require.False(t, IsIdentifier("v1.0"))
}

func TestSortDescendingZeroPadded(t *testing.T) {
	lexical := SortDescending([]string{"v1.02.0", "v1.10.0", "v1.00.0"}, SortLexical)
	require.Equal(t, []string{"v1.10.0", "v1.02.0", "v1.00.0"}, lexical)

	semverOrder := SortDescending([]string{"v1.2.0", "v1.10.0", "v1.02.1"}, SortSemver)
	require.Equal(t, []string{"v1.10.0", "v1.02.1", "v1.2.0"}, semverOrder)
}

func TestSortDescendingLexicalKeepsStringOrder(t *testing.T) {
	ids := []string{"v1.0.0", "v10.0.0", "v2.0.0", "v1.1.0"}
	got := SortDescending(ids, SortLexical)
	require.Equal(t, []string{"v2.0.0", "v10.0.0", "v1.1.0", "v1.0.0"}, got)
}

func TestSortDescendingSemver(t *testing.T) {
	ids := []string{"v1.0.0", "v10.0.0", "v2.0.0", "v2.0.0-rc.1", "v1.1.0"}
	got := SortDescending(ids, SortSemver)
	require.Equal(t, []string{"v10.0.0", "v2.0.0", "v2.0.0-rc.1", "v1.1.0", "v1.0.0"}, got)
}

func TestSortDescendingUnknownOrderFallsBackToLexical(t *testing.T) {
	got := SortDescending([]string{"v1.0.0", "v1.1.0"}, SortOrder("bogus"))
	require.Equal(t, []string{"v1.1.0", "v1.0.0"}, got)
}

func TestIdentifierFromPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // storybook workspace
  "name": "@acme/ui",
  "version": "1.4.2",
}`), 0o644))

	id, err := IdentifierFromPackage(path)
	require.NoError(t, err)
	require.Equal(t, "v1.4.2", id)
}

func TestReadPackageVersionErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadPackageVersion(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	noVersion := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(noVersion, []byte(`{"name":"x"}`), 0o644))
	_, err = ReadPackageVersion(noVersion)
	require.ErrorContains(t, err, "no version field")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"version":`), 0o644))
	_, err = ReadPackageVersion(broken)
	require.ErrorContains(t, err, "parse package metadata")
}
