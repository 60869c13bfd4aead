package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	gateway  *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests partitioned by method, route, and status.",
	}, []string{"method", "route", "status"})
	gateway := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_calls_total",
		Help: "Document gateway calls partitioned by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, requests, gateway)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
		gateway:  gateway,
	}
}

// ObserveRequest records one finished request.
func (m *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route)).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(normalizeLabel(method), normalizeLabel(route), strconv.Itoa(status)).Inc()
}

// IncGatewayCall counts one document gateway call.
func (m *HTTPMetrics) IncGatewayCall(operation string, success bool) {
	if m == nil || m.gateway == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.gateway.WithLabelValues(normalizeLabel(operation), outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
