package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// OutcomeLabel enumerates final publish outcomes.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeDegraded OutcomeLabel = "degraded"
	OutcomeFailed   OutcomeLabel = "failed"
)

// Recorder defines observability hooks for publish runs and the docs server.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	ObservePublishDuration(d time.Duration)
	IncPublishOutcome(outcome OutcomeLabel)
	IncHTTPRequest(method string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) ObservePublishDuration(time.Duration)      {}
func (NoopRecorder) IncPublishOutcome(OutcomeLabel)            {}
func (NoopRecorder) IncHTTPRequest(string, int)                {}
