package observability

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTP("/api/diagnosis/submit", http.MethodPost, 201, 20*time.Millisecond)
	m.ObserveHTTP("/api/diagnosis/submit", http.MethodPost, 201, 10*time.Millisecond)
	m.Submission("persisted")
	m.Submission("degraded")
	m.Submission("degraded")
	m.DocumentFinished("risk_matrix", "completed", 4096)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/diagnosis/submit", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("persisted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues("degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("risk_matrix", "completed")))
}

func TestJobsInFlight(t *testing.T) {
	m := NewMetrics()
	done := m.JobStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.jobsInFlight))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("/", "GET", 200, time.Second)
		m.Submission("persisted")
		m.DocumentFinished("x", "failed", 0)
		m.JobStarted()()
	})
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Submission("persisted")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lawbix_diagnosis_submissions_total{outcome="persisted"} 1`)
}

func TestTracerProviderRecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := NewTracerProvider(context.Background(), "lawbix-test", slog.New(slog.NewTextHandler(io.Discard, nil)), rec)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := Tracer().Start(context.Background(), "diagnosis.submit")
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "diagnosis.submit", rec.Ended()[0].Name())
}
