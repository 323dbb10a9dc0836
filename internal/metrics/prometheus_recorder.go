package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stepDuration    *prom.HistogramVec
	stepResults     *prom.CounterVec
	publishDuration prom.Histogram
	publishOutcome  *prom.CounterVec
	httpRequests    *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docshelf",
			Name:      "publish_step_duration_seconds",
			Help:      "Duration of individual publish steps",
			Buckets:   prom.DefBuckets,
		}, []string{"step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docshelf",
			Name:      "publish_step_results_total",
			Help:      "Publish step results by outcome",
		}, []string{"step", "result"}),
		publishDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docshelf",
			Name:      "publish_duration_seconds",
			Help:      "Total publish duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		publishOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docshelf",
			Name:      "publish_outcomes_total",
			Help:      "Publish runs by final outcome",
		}, []string{"outcome"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docshelf",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by method and status code",
		}, []string{"method", "code"}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.publishDuration, pr.publishOutcome, pr.httpRequests)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePublishDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.publishDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPublishOutcome(outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.publishOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncHTTPRequest(method string, status int) {
	if p == nil {
		return
	}
	p.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
