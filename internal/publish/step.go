package publish

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docshelf/internal/metrics"
)

// StepName identifies a pipeline step.
type StepName string

// Pipeline steps in execution order.
const (
	StepEnsureRoot StepName = "ensure-root"
	StepBuild      StepName = "build"
	StepPromote    StepName = "promote"
	StepAlias      StepName = "alias"
	StepScan       StepName = "scan"
	StepManifest   StepName = "manifest"
	StepRedirect   StepName = "redirect"
	StepNotify     StepName = "notify"
	StepRecord     StepName = "record"
)

// StepFunc executes one step against the run state.
type StepFunc func(ctx context.Context, st *State) error

// Step is a named unit of the pipeline.
type Step struct {
	Name StepName
	// Fatal steps abort the run on error. Other steps degrade to a warning.
	Fatal bool
	Run   StepFunc
	// SkipIf, when set and true, skips the step without running it.
	SkipIf func(st *State) bool
}

// State is shared by all steps of one run.
type State struct {
	RunID     string
	Version   string
	Root      string
	StartedAt time.Time

	// BuildOutput is the directory produced by the build step.
	BuildOutput string
	// Versions is the listing computed by the scan step; nil when the scan did not succeed.
	Versions []string
	// Warnings collects degraded step failures so far.
	Warnings []error
}

// StepResult records how a single step ended.
type StepResult struct {
	Name     StepName
	Result   metrics.ResultLabel
	Duration time.Duration
	Err      error
}
