package publish

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docshelf/internal/alias"
	"git.home.luguber.info/inful/docshelf/internal/builder"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/history"
	"git.home.luguber.info/inful/docshelf/internal/logfields"
	"git.home.luguber.info/inful/docshelf/internal/metrics"
	"git.home.luguber.info/inful/docshelf/internal/notify"
	"git.home.luguber.info/inful/docshelf/internal/versioning"
)

// Options configures a Publisher.
type Options struct {
	Root      string
	Version   string
	AliasMode alias.Mode
	SortOrder versioning.SortOrder
	// WorkDir is where the site was built from; its git HEAD is stamped on history records.
	WorkDir string
}

// RunStore persists finished runs.
type RunStore interface {
	Record(ctx context.Context, run history.Run) error
}

// Publisher runs the publish pipeline.
type Publisher struct {
	opts      Options
	builder   builder.Builder
	recorder  metrics.Recorder
	store     RunStore
	notifier  notify.Notifier
	overrides map[StepName]StepFunc
	now       func() time.Time
	newRunID  func() string
}

// New returns a Publisher for opts that builds the site with b.
func New(opts Options, b builder.Builder) *Publisher {
	if opts.AliasMode == "" {
		opts.AliasMode = alias.ModeSymlink
	}
	if opts.SortOrder == "" {
		opts.SortOrder = versioning.SortLexical
	}
	return &Publisher{
		opts:      opts,
		builder:   b,
		recorder:  metrics.NoopRecorder{},
		overrides: make(map[StepName]StepFunc),
		now:       time.Now,
		newRunID:  history.NewRunID,
	}
}

// WithRecorder sets the metrics recorder.
func (p *Publisher) WithRecorder(r metrics.Recorder) *Publisher {
	if r != nil {
		p.recorder = r
	}
	return p
}

// WithHistory enables the record step.
func (p *Publisher) WithHistory(s RunStore) *Publisher {
	p.store = s
	return p
}

// WithNotifier enables the notify step.
func (p *Publisher) WithNotifier(n notify.Notifier) *Publisher {
	p.notifier = n
	return p
}

// WithStepOverride replaces the body of the named step. The step keeps its
// position and fatal classification.
func (p *Publisher) WithStepOverride(name StepName, fn StepFunc) *Publisher {
	p.overrides[name] = fn
	return p
}

// Steps returns the pipeline in execution order with overrides applied.
func (p *Publisher) Steps() []Step {
	steps := []Step{
		{Name: StepEnsureRoot, Fatal: true, Run: p.ensureRoot},
		{Name: StepBuild, Fatal: true, Run: p.build},
		{Name: StepPromote, Fatal: true, Run: p.promote},
		{Name: StepAlias, Run: p.updateAlias},
		{Name: StepScan, Run: p.scan},
		{Name: StepManifest, Run: p.writeManifest},
		{Name: StepRedirect, Run: p.writeRedirect},
		{Name: StepNotify, Run: p.notify, SkipIf: func(*State) bool { return p.notifier == nil }},
		// record runs last so the stored outcome covers every other step.
		{Name: StepRecord, Run: p.record, SkipIf: func(*State) bool { return p.store == nil }},
	}
	for i := range steps {
		if fn, ok := p.overrides[steps[i].Name]; ok {
			steps[i].Run = fn
			steps[i].SkipIf = nil
		}
	}
	return steps
}

// Run executes the pipeline. The returned report is never nil. The error is
// non-nil only when a fatal step failed.
func (p *Publisher) Run(ctx context.Context) (*Report, error) {
	st := &State{
		RunID:     p.newRunID(),
		Version:   p.opts.Version,
		Root:      p.opts.Root,
		StartedAt: p.now(),
	}
	report := &Report{RunID: st.RunID, Version: st.Version, Root: st.Root, Start: st.StartedAt}
	log := slog.With(logfields.RunID(st.RunID), logfields.Version(st.Version))

	if !versioning.IsIdentifier(st.Version) {
		report.Fatal = derrors.ValidationError("invalid version identifier").
			WithContext("version", st.Version).
			Build()
	}
	if report.Fatal == nil && st.Root == "" {
		report.Fatal = derrors.ConfigError("publish root is not configured").Build()
	}

	if report.Fatal == nil {
		log.Info("Publishing version", logfields.Path(st.Root))
		for _, step := range p.Steps() {
			res := p.runStep(ctx, log, step, st)
			report.Steps = append(report.Steps, res)
			if res.Result == metrics.ResultFatal {
				report.Fatal = res.Err
				break
			}
			if res.Result == metrics.ResultWarning {
				st.Warnings = append(st.Warnings, res.Err)
			}
		}
	}

	report.End = p.now()
	report.deriveOutcome()
	p.recorder.ObservePublishDuration(report.Duration())
	p.recorder.IncPublishOutcome(report.Outcome)

	if report.Fatal != nil {
		log.Error("Publish failed", logfields.Error(report.Fatal))
		return report, report.Fatal
	}
	log.Info("Publish finished",
		slog.String("outcome", string(report.Outcome)),
		slog.Int("warnings", len(st.Warnings)),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

func (p *Publisher) runStep(ctx context.Context, log *slog.Logger, step Step, st *State) StepResult {
	res := StepResult{Name: step.Name}
	stepLog := log.With(logfields.Step(string(step.Name)))

	if step.SkipIf != nil && step.SkipIf(st) {
		res.Result = metrics.ResultSkipped
		p.recorder.IncStepResult(string(step.Name), res.Result)
		stepLog.Debug("Step skipped")
		return res
	}

	stepLog.Debug("Starting step")
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = step.Run(ctx, st)
	}
	res.Duration = time.Since(start)
	p.recorder.ObserveStepDuration(string(step.Name), res.Duration)

	switch {
	case err == nil:
		res.Result = metrics.ResultSuccess
		stepLog.Debug("Step completed", logfields.DurationMS(float64(res.Duration.Milliseconds())))
	case step.Fatal:
		res.Result = metrics.ResultFatal
		res.Err = asFatal(err, step.Name)
		stepLog.Error("Step failed", logfields.Error(err))
	default:
		res.Result = metrics.ResultWarning
		res.Err = asWarning(err, step.Name)
		stepLog.Warn("Step failed, continuing", logfields.Error(err))
	}
	p.recorder.IncStepResult(string(step.Name), res.Result)
	return res
}

// asFatal keeps an already classified error's category but forces fatal severity.
func asFatal(err error, step StepName) error {
	cat := derrors.CategoryRuntime
	if ce, ok := derrors.AsClassified(err); ok {
		if ce.Severity() == derrors.SeverityFatal {
			return ce
		}
		cat = ce.Category()
	}
	return derrors.WrapError(err, cat, "publish step "+string(step)+" failed").
		Fatal().
		WithContext("step", string(step)).
		Build()
}

func asWarning(err error, step StepName) error {
	cat := derrors.CategoryRuntime
	if ce, ok := derrors.AsClassified(err); ok {
		cat = ce.Category()
	}
	return derrors.WrapError(err, cat, "publish step "+string(step)+" degraded").
		Warning().
		WithContext("step", string(step)).
		Build()
}
