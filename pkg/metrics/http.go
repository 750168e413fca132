package metrics

import "time"

// HTTPMetrics records API request handling.
type HTTPMetrics interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordRateLimited(route string)
}

// NewHTTPMetrics returns the Prometheus-backed implementation, or nil if
// metrics are disabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() || newPrometheusHTTPMetrics == nil {
		return nil
	}
	return newPrometheusHTTPMetrics()
}

var newPrometheusHTTPMetrics func() HTTPMetrics

// RegisterHTTPMetricsConstructor registers the Prometheus constructor.
func RegisterHTTPMetricsConstructor(constructor func() HTTPMetrics) {
	newPrometheusHTTPMetrics = constructor
}
