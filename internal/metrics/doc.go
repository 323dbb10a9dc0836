// Package metrics records publish and serve metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never need nil checks:
//
//	pub := publish.New(opts, b).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The publish command can dump the registry to a node_exporter textfile after
// a run (WriteTextfile); the serve command exposes it over HTTP (HTTPHandler).
package metrics
