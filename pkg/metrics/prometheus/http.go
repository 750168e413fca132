package prometheus

import (
	"strconv"
	"time"

	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// httpMetrics is the Prometheus implementation of metrics.HTTPMetrics.
type httpMetrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec
}

// NewHTTPMetrics creates the API request collectors.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewHTTPMetrics() metrics.HTTPMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &httpMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_http_requests_total",
				Help: "Total number of API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridacct_http_request_duration_milliseconds",
				Help:    "Duration of API requests in milliseconds",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"method", "route"},
		),
		rateLimited: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_http_rate_limited_total",
				Help: "Requests rejected by the per-client rate limiter",
			},
			[]string{"route"},
		),
	}
}

func (m *httpMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *httpMetrics) RecordRateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}
