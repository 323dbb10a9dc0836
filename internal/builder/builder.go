// Package builder runs the external static-site build that produces the
// snapshot a publish promotes.
package builder

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
)

// Builder produces a static site and returns the directory it was written to.
type Builder interface {
	Build(ctx context.Context) (string, error)
}

// Func adapts a function to the Builder interface.
type Func func(ctx context.Context) (string, error)

func (f Func) Build(ctx context.Context) (string, error) { return f(ctx) }

// CommandBuilder invokes an external command such as `npx storybook build`.
// The command's output streams are passed through so build progress stays visible.
type CommandBuilder struct {
	Command []string
	Dir     string
	Output  string
	Env     []string
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommandBuilder returns a builder that runs command in dir and expects the
// site in output (relative paths resolve against dir).
func NewCommandBuilder(command []string, dir, output string) *CommandBuilder {
	return &CommandBuilder{
		Command: command,
		Dir:     dir,
		Output:  output,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// OutputDir returns the absolute directory the build is expected to write.
func (b *CommandBuilder) OutputDir() (string, error) {
	out := b.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(b.Dir, out)
	}
	return filepath.Abs(out)
}

func (b *CommandBuilder) Build(ctx context.Context) (string, error) {
	if len(b.Command) == 0 {
		return "", derrors.ConfigError("no build command configured").Build()
	}
	bin, err := exec.LookPath(b.Command[0])
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryBuild, "site builder not found").
			Fatal().
			WithContext("command", b.Command[0]).
			Build()
	}
	out, err := b.OutputDir()
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryConfig, "resolve build output directory").Fatal().Build()
	}

	cmd := exec.CommandContext(ctx, bin, b.Command[1:]...)
	cmd.Dir = b.Dir
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if len(b.Env) > 0 {
		cmd.Env = append(os.Environ(), b.Env...)
	}

	slog.Info("Running site builder",
		slog.String("command", strings.Join(b.Command, " ")),
		logfields.Path(b.Dir))
	if err := cmd.Run(); err != nil {
		return "", derrors.WrapError(err, derrors.CategoryBuild, "site builder failed").
			Fatal().
			WithContext("command", strings.Join(b.Command, " ")).
			Build()
	}

	if st, err := os.Stat(out); err != nil || !st.IsDir() {
		return "", derrors.BuildError("site builder produced no output directory").
			WithContext("path", out).
			Build()
	}
	slog.Debug("Site builder finished", logfields.Path(out))
	return out, nil
}
