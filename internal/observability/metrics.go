// Package observability holds the service's Prometheus metrics and tracing
// setup.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are registered on their own registry so tests can build as many as
// they like.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	submissions   *prometheus.CounterVec
	documents     *prometheus.CounterVec
	documentBytes prometheus.Histogram
	jobsInFlight  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawbix_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lawbix_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	m.submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawbix_diagnosis_submissions_total",
			Help: "Diagnosis submissions by outcome (persisted, degraded, invalid).",
		},
		[]string{"outcome"},
	)
	m.documents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lawbix_documents_generated_total",
			Help: "Document generation attempts by template and final status.",
		},
		[]string{"template", "status"},
	)
	m.documentBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lawbix_document_size_bytes",
		Help:    "Size of generated documents.",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
	m.jobsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lawbix_document_jobs_in_progress",
		Help: "Document jobs currently being rendered.",
	})

	m.Registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.submissions,
		m.documents,
		m.documentBytes,
		m.jobsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DocumentFinished(template, status string, size int64) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(template, status).Inc()
	if size > 0 {
		m.documentBytes.Observe(float64(size))
	}
}

// JobStarted bumps the in-flight gauge; call the returned func when done.
func (m *Metrics) JobStarted() func() {
	if m == nil {
		return func() {}
	}
	m.jobsInFlight.Inc()
	return m.jobsInFlight.Dec
}
