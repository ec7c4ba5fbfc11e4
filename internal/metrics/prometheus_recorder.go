package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	httpRequests  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}

	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "sphinxkit",
		Name:      "build_duration_seconds",
		Help:      "Total sphinx-build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sphinxkit",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sphinxkit",
		Name:      "http_requests_total",
		Help:      "Docs server requests by status code",
	}, []string{"status"})

	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.httpRequests)
	return pr
}

// Registry exposes the underlying registry for the /metrics handler.
func (pr *PrometheusRecorder) Registry() *prom.Registry {
	return pr.registry
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

func (pr *PrometheusRecorder) IncHTTPRequest(status int) {
	pr.httpRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}
