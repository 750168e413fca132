package prometheus

import (
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// identityMetrics is the Prometheus implementation of metrics.IdentityMetrics.
type identityMetrics struct {
	storeFaults *prometheus.CounterVec
	countCache  *prometheus.CounterVec
}

// NewIdentityMetrics creates the identity coordinator collectors.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewIdentityMetrics() metrics.IdentityMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &identityMetrics{
		storeFaults: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_store_faults_total",
				Help: "Total number of failed store calls by store and operation",
			},
			[]string{"store", "operation"},
		),
		countCache: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_active_count_lookups_total",
				Help: "Active account count lookups by cache result",
			},
			[]string{"result"}, // "hit", "miss"
		),
	}
}

func (m *identityMetrics) RecordStoreFault(store, operation string) {
	if m == nil {
		return
	}
	m.storeFaults.WithLabelValues(store, operation).Inc()
}

func (m *identityMetrics) RecordCountCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.countCache.WithLabelValues(result).Inc()
}
