// Package metrics owns the Prometheus registry for the HTTP API and the
// insight pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Insight outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	insightDuration *prometheus.HistogramVec
	insightTotal    *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lumina",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumina",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		insightDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lumina",
			Name:      "insight_duration_seconds",
			Help:      "Time spent producing an AI insight",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"outcome"}),
		insightTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumina",
			Name:      "insight_requests_total",
			Help:      "Insight requests by outcome and error kind",
		}, []string{"outcome", "kind"}),
	}

	registry.MustRegister(
		m.requestDuration, m.requestTotal, m.insightDuration, m.insightTotal,
		collectors.NewGoCollector(),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveInsight records one insight request. kind is empty on success.
func (m *Metrics) ObserveInsight(outcome, kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.insightDuration.WithLabelValues(outcome).Observe(d.Seconds())
	m.insightTotal.WithLabelValues(outcome, kind).Inc()
}

// TrackStudents exposes the roster size as a gauge.
func (m *Metrics) TrackStudents(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "lumina",
		Name:      "students",
		Help:      "Number of students in the roster",
	}, func() float64 { return float64(count()) }))
}
