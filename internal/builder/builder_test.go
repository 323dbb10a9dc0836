package builder

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
)

func shellBuilder(t *testing.T, script string) *CommandBuilder {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts require a POSIX shell")
	}
	b := NewCommandBuilder([]string{"sh", "-c", script}, t.TempDir(), "storybook-static")
	b.Stdout = &bytes.Buffer{}
	b.Stderr = &bytes.Buffer{}
	return b
}

func TestCommandBuilderSuccess(t *testing.T) {
	b := shellBuilder(t, "mkdir -p storybook-static && echo built > storybook-static/index.html && echo done")

	out, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(b.Dir, "storybook-static"), out)
	require.FileExists(t, filepath.Join(out, "index.html"))
	require.Contains(t, b.Stdout.(*bytes.Buffer).String(), "done")
}

func TestCommandBuilderNonZeroExit(t *testing.T) {
	b := shellBuilder(t, "echo failing >&2; exit 3")

	_, err := b.Build(context.Background())
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryBuild))
	require.Equal(t, derrors.SeverityFatal, derrors.GetSeverity(err))
	require.Contains(t, b.Stderr.(*bytes.Buffer).String(), "failing")
}

func TestCommandBuilderMissingOutput(t *testing.T) {
	b := shellBuilder(t, "true")

	_, err := b.Build(context.Background())
	require.ErrorContains(t, err, "no output directory")
}

func TestCommandBuilderUnknownBinary(t *testing.T) {
	b := NewCommandBuilder([]string{"docshelf-no-such-builder"}, t.TempDir(), "out")
	_, err := b.Build(context.Background())
	require.ErrorContains(t, err, "site builder not found")
}

func TestCommandBuilderEmptyCommand(t *testing.T) {
	b := NewCommandBuilder(nil, t.TempDir(), "out")
	_, err := b.Build(context.Background())
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestFuncBuilder(t *testing.T) {
	var b Builder = Func(func(context.Context) (string, error) { return "/tmp/site", nil })
	out, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/tmp/site", out)
}
