package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records latency and counts for the API surface.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewRequestMetrics registers the HTTP request metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of handled HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests by status.",
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration, total)
	return &RequestMetrics{duration: duration, total: total}
}

// Observe records one handled request.
func (m *RequestMetrics) Observe(method, route string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.total.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// UpstreamMetrics records the outcome of calls to external data sources.
type UpstreamMetrics struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream fetch metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of upstream REST calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_request_failures_total",
		Help: "Upstream REST calls that did not return a 2xx.",
	}, []string{"source", "status"})
	reg.MustRegister(duration, failures)
	return &UpstreamMetrics{duration: duration, failures: failures}
}

// ObserveUpstream implements restclient.Observer. Status 0 means the
// transport failed before a response arrived.
func (m *UpstreamMetrics) ObserveUpstream(source, method string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	source = normalizeLabel(source)
	m.duration.WithLabelValues(source, normalizeLabel(method)).Observe(duration.Seconds())
	if status < 200 || status >= 300 {
		m.failures.WithLabelValues(source, strconv.Itoa(status)).Inc()
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
