package prometheus

import (
	"time"

	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// provisioningMetrics is the Prometheus implementation of metrics.ProvisioningMetrics.
type provisioningMetrics struct {
	outcomes     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	stepFailures *prometheus.CounterVec
}

// NewProvisioningMetrics creates the registration workflow collectors.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewProvisioningMetrics() metrics.ProvisioningMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &provisioningMetrics{
		outcomes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_registrations_total",
				Help: "Total number of registration workflow runs by outcome",
			},
			[]string{"outcome"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "gridacct_registration_duration_milliseconds",
				Help: "Duration of registration workflow runs in milliseconds",
				Buckets: []float64{
					1,    // validation failures
					5,    // duplicate checks
					25,   // pending accounts
					100,  // immediate provisioning
					250,  // avatar clone with many wearables
					1000, // slow collaborators
					5000,
				},
			},
			[]string{"outcome"},
		),
		stepFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridacct_provisioning_step_failures_total",
				Help: "Non-fatal provisioning step failures by step",
			},
			[]string{"step"},
		),
	}
}

func (m *provisioningMetrics) RecordOutcome(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *provisioningMetrics) RecordStepFailure(step string) {
	if m == nil {
		return
	}
	m.stepFailures.WithLabelValues(step).Inc()
}
