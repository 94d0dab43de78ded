package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveInsight(t *testing.T) {
	m := New()
	m.ObserveInsight(OutcomeSuccess, "", 100*time.Millisecond)
	m.ObserveInsight(OutcomeError, "rate_limit", time.Second)
	m.ObserveInsight(OutcomeError, "rate_limit", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.insightTotal.WithLabelValues(OutcomeSuccess, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.insightTotal.WithLabelValues(OutcomeError, "rate_limit")))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodGet, "/api/students", 200, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/students", "200")))
}

func TestHandlerExposesStudents(t *testing.T) {
	m := New()
	m.TrackStudents(func() int { return 4 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lumina_students 4"))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveInsight(OutcomeSuccess, "", time.Second)
	m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	m.TrackStudents(func() int { return 1 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
