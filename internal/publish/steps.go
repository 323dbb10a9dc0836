package publish

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/fsutil"
	"git.home.luguber.info/inful/docshelf/internal/history"
	"git.home.luguber.info/inful/docshelf/internal/manifest"
	"git.home.luguber.info/inful/docshelf/internal/metrics"
	"git.home.luguber.info/inful/docshelf/internal/notify"
	"git.home.luguber.info/inful/docshelf/internal/redirect"
)

func (p *Publisher) ensureRoot(_ context.Context, st *State) error {
	if err := os.MkdirAll(st.Root, 0o750); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create publish root").
			Fatal().
			WithContext("path", st.Root).
			Build()
	}
	return nil
}

func (p *Publisher) build(ctx context.Context, st *State) error {
	if p.builder == nil {
		return derrors.ConfigError("no site builder configured").Build()
	}
	out, err := p.builder.Build(ctx)
	if err != nil {
		return err
	}
	st.BuildOutput = out
	return nil
}

func (p *Publisher) promote(_ context.Context, st *State) error {
	if st.BuildOutput == "" {
		return derrors.InternalError("no build output to promote").Build()
	}
	dst := filepath.Join(st.Root, st.Version)
	if fsutil.Exists(dst) {
		if err := os.RemoveAll(dst); err != nil {
			return derrors.WrapError(err, derrors.CategoryFileSystem, "remove existing version directory").
				Fatal().
				WithContext("path", dst).
				Build()
		}
	}
	if err := fsutil.MoveDir(st.BuildOutput, dst); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "move build output into publish root").
			Fatal().
			WithContext("from", st.BuildOutput).
			WithContext("to", dst).
			Build()
	}
	return nil
}

func (p *Publisher) updateAlias(_ context.Context, st *State) error {
	return alias.Update(st.Root, st.Version, p.opts.AliasMode)
}

func (p *Publisher) scan(_ context.Context, st *State) error {
	versions, err := manifest.ScanVersions(st.Root, p.opts.SortOrder)
	if err != nil {
		return err
	}
	st.Versions = versions
	return nil
}

// listing falls back to only the current version when the scan did not
// produce one.
func listing(st *State) []string {
	if st.Versions == nil {
		return []string{st.Version}
	}
	return st.Versions
}

func (p *Publisher) writeManifest(_ context.Context, st *State) error {
	return manifest.Write(st.Root, manifest.Manifest{Latest: st.Version, Versions: listing(st)})
}

func (p *Publisher) writeRedirect(_ context.Context, st *State) error {
	return redirect.Write(st.Root, st.Version)
}

func (p *Publisher) record(ctx context.Context, st *State) error {
	// Missing commit metadata should not fail the record.
	commit, _ := history.HeadCommit(p.workDir())
	outcome := metrics.OutcomeSuccess
	warnings := make([]string, 0, len(st.Warnings))
	for _, w := range st.Warnings {
		warnings = append(warnings, w.Error())
	}
	if len(warnings) > 0 {
		outcome = metrics.OutcomeDegraded
	}
	run := history.Run{
		ID:         st.RunID,
		Version:    st.Version,
		Commit:     commit,
		StartedAt:  st.StartedAt,
		FinishedAt: p.now(),
		Outcome:    string(outcome),
		Warnings:   warnings,
	}
	if err := p.store.Record(ctx, run); err != nil {
		return derrors.WrapError(err, derrors.CategoryHistory, "record publish run").Build()
	}
	return nil
}

func (p *Publisher) notify(ctx context.Context, st *State) error {
	ev := notify.Event{RunID: st.RunID, Version: st.Version, Versions: listing(st)}
	if err := p.notifier.Notify(ctx, ev); err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "notify version published").Build()
	}
	return nil
}

func (p *Publisher) workDir() string {
	if p.opts.WorkDir != "" {
		return p.opts.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

