package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/config"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
)

const testConfig = `publish:
  root: public
build:
  command: ["sh", "-c", "mkdir -p out && echo hi > out/index.html"]
  output: out
history:
  enabled: true
  path: state/history.db
`

// setupProject creates a temp project with a package manifest and config and
// makes it the working directory.
func setupProject(t *testing.T, version string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("build command uses sh")
	}
	for _, env := range []string{
		config.EnvPort, config.EnvRoot, config.EnvAliasMode, config.EnvSortOrder,
		config.EnvNATSURL, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(env, "")
	}

	dir := t.TempDir()
	chdir(t, dir)
	writePackage(t, dir, version)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFileName), []byte(testConfig), 0o600))
	return dir
}

func writePackage(t *testing.T, dir, version string) {
	t.Helper()
	pkg := `{
  // storybook package
  "name": "ui",
  "version": "` + version + `"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o600))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("docshelf"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = ctx.Run(&Global{Stdout: &out}, &cli)
	return out.String(), err
}

func TestPublishCommand(t *testing.T) {
	dir := setupProject(t, "1.2.3")

	out, err := run(t, "publish")
	require.NoError(t, err)
	require.Contains(t, out, "Published success v1.2.3")

	data, err := os.ReadFile(filepath.Join(dir, "public", "v1.2.3", "index.html"))
	require.NoError(t, err)
	require.Equal(t, "hi\n", string(data))

	target, err := alias.Resolve(filepath.Join(dir, "public"))
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", target)

	m, err := manifest.Read(filepath.Join(dir, "public"))
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", m.Latest)
	require.Equal(t, []string{"v1.2.3"}, m.Versions)

	require.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestPublishCommandVersionFlagAndCopyMode(t *testing.T) {
	dir := setupProject(t, "1.0.0")

	_, err := run(t, "publish", "--semver", "v2.0.0-rc.1", "--alias-mode", "copy", "--root", "site")
	require.NoError(t, err)

	require.DirExists(t, filepath.Join(dir, "site", "v2.0.0-rc.1"))
	info, err := os.Lstat(filepath.Join(dir, "site", alias.Name))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.FileExists(t, filepath.Join(dir, "site", alias.Name, "index.html"))
}

func TestPublishCommandZeroPaddedVersion(t *testing.T) {
	dir := setupProject(t, "1.10.0")
	_, err := run(t, "publish")
	require.NoError(t, err)

	_, err = run(t, "publish", "--semver", "1.02.0")
	require.NoError(t, err)

	m, err := manifest.Read(filepath.Join(dir, "public"))
	require.NoError(t, err)
	require.Equal(t, "v1.02.0", m.Latest)
	require.Equal(t, []string{"v1.10.0", "v1.02.0"}, m.Versions)
}

func TestPublishCommandInvalidVersion(t *testing.T) {
	setupProject(t, "not-a-version")

	_, err := run(t, "publish")
	require.Error(t, err)
	require.NoDirExists(t, "public")
}

func TestVersionsCommand(t *testing.T) {
	dir := setupProject(t, "1.0.0")
	_, err := run(t, "publish")
	require.NoError(t, err)
	writePackage(t, dir, "1.1.0")
	_, err = run(t, "publish")
	require.NoError(t, err)

	out, err := run(t, "versions")
	require.NoError(t, err)
	require.Equal(t, "* v1.1.0\n  v1.0.0\n", out)

	out, err = run(t, "versions", "--json")
	require.NoError(t, err)
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Equal(t, "v1.1.0", m.Latest)
	require.Equal(t, []string{"v1.1.0", "v1.0.0"}, m.Versions)
}

func TestVersionsCommandEmptyRoot(t *testing.T) {
	setupProject(t, "1.0.0")

	out, err := run(t, "versions", "--root", "missing")
	require.NoError(t, err)
	require.Equal(t, "No versions published\n", out)
}

func TestHistoryCommand(t *testing.T) {
	setupProject(t, "3.1.4")

	out, err := run(t, "history")
	require.NoError(t, err)
	require.Equal(t, "No publish history recorded\n", out)

	_, err = run(t, "publish")
	require.NoError(t, err)

	out, err = run(t, "history", "-n", "5")
	require.NoError(t, err)
	require.Contains(t, out, "VERSION")
	require.Contains(t, out, "v3.1.4")
	require.Contains(t, out, "success")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	out, err := run(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "initialized successfully")
	require.FileExists(t, filepath.Join(dir, config.DefaultFileName))

	_, err = run(t, "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	_, err = run(t, "init", "--force")
	require.NoError(t, err)

	t.Setenv(config.EnvNATSURL, "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.True(t, cfg.History.Enabled)
}

func TestServeCommandFailsWithoutVersions(t *testing.T) {
	setupProject(t, "1.0.0")

	_, err := run(t, "serve", "--no-open", "--port", "0", "--root", "empty")
	require.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
