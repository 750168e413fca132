package metrics

// IdentityMetrics records paired-mutation outcomes in the identity coordinator.
type IdentityMetrics interface {
	// RecordStoreFault counts a failed call against store ("mapping" or
	// "accounts") during operation.
	RecordStoreFault(store, operation string)

	// RecordCountCache counts active-account count lookups by cache result.
	RecordCountCache(hit bool)
}

// NewIdentityMetrics returns the Prometheus-backed implementation, or nil if
// metrics are disabled.
func NewIdentityMetrics() IdentityMetrics {
	if !IsEnabled() || newPrometheusIdentityMetrics == nil {
		return nil
	}
	return newPrometheusIdentityMetrics()
}

// newPrometheusIdentityMetrics is set by pkg/metrics/prometheus.
var newPrometheusIdentityMetrics func() IdentityMetrics

// RegisterIdentityMetricsConstructor registers the Prometheus constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterIdentityMetricsConstructor(constructor func() IdentityMetrics) {
	newPrometheusIdentityMetrics = constructor
}

// RecordStoreFault is a nil-safe wrapper around IdentityMetrics.RecordStoreFault.
func RecordStoreFault(m IdentityMetrics, store, operation string) {
	if m != nil {
		m.RecordStoreFault(store, operation)
	}
}

// RecordCountCache is a nil-safe wrapper around IdentityMetrics.RecordCountCache.
func RecordCountCache(m IdentityMetrics, hit bool) {
	if m != nil {
		m.RecordCountCache(hit)
	}
}
