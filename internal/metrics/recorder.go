// Package metrics defines observability hooks for builds and the docs
// server, with a Prometheus implementation and a noop default.
package metrics

import "time"

// Build outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder defines observability hooks for build and serve metrics.
// Implementations may forward to Prometheus; the NoopRecorder is used when
// metrics are not configured.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	IncHTTPRequest(status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(string)             {}
func (NoopRecorder) IncHTTPRequest(int)                 {}
