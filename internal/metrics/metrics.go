// Package metrics holds the Prometheus instrumentation for the Lit Up API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingest result labels.
const (
	IngestResultReady  = "ready"
	IngestResultFailed = "failed"
	IngestResultLocked = "locked"
)

// Metrics holds all Prometheus metrics for the Lit Up API server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Ingest metrics
	IngestRunsTotal *prometheus.CounterVec
}

// New creates a Metrics instance with all metrics registered on a
// dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litup_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "litup_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ingestRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litup_ingest_runs_total",
			Help: "Total number of song ingest attempts by result",
		},
		[]string{"result"},
	)

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		ingestRunsTotal,
	)

	return &Metrics{
		registry:            registry,
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		IngestRunsTotal:     ingestRunsTotal,
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordIngest records one song ingest attempt.
func (m *Metrics) RecordIngest(result string) {
	m.IngestRunsTotal.WithLabelValues(result).Inc()
}
