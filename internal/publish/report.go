package publish

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/docshelf/internal/metrics"
)

// Report summarizes a publish run.
type Report struct {
	RunID   string
	Version string
	Root    string
	Start   time.Time
	End     time.Time
	Steps   []StepResult
	Outcome metrics.OutcomeLabel
	// Fatal is the error that aborted the run, if any.
	Fatal error
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Warnings returns the errors of degraded steps in execution order.
func (r *Report) Warnings() []error {
	var out []error
	for _, s := range r.Steps {
		if s.Result == metrics.ResultWarning && s.Err != nil {
			out = append(out, s.Err)
		}
	}
	return out
}

// Step returns the result for name and whether the step was reached.
func (r *Report) Step(name StepName) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

func (r *Report) deriveOutcome() {
	switch {
	case r.Fatal != nil:
		r.Outcome = metrics.OutcomeFailed
	case len(r.Warnings()) > 0:
		r.Outcome = metrics.OutcomeDegraded
	default:
		r.Outcome = metrics.OutcomeSuccess
	}
}

// String renders a one-line summary for CLI output.
func (r *Report) String() string {
	return fmt.Sprintf("%s %s (%s, %d warning(s), run %s)",
		r.Outcome, r.Version, r.Duration().Round(time.Millisecond), len(r.Warnings()), r.RunID)
}
