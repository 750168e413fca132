package metrics

import "time"

// Registration outcomes.
const (
	OutcomeProvisioned = "provisioned"
	OutcomePending     = "pending"
	OutcomeInvalid     = "invalid"
	OutcomeExists      = "exists"
	OutcomeFailed      = "failed"
	OutcomeActivated   = "activated"
)

// ProvisioningMetrics records registration workflow behaviour.
type ProvisioningMetrics interface {
	// RecordOutcome counts one Register or Activate call by outcome and
	// observes its duration.
	RecordOutcome(outcome string, duration time.Duration)

	// RecordStepFailure counts a non-fatal collaborator failure, e.g.
	// "inventory", "password", "avatar", "home", "notify".
	RecordStepFailure(step string)
}

// NewProvisioningMetrics returns the Prometheus-backed implementation, or nil
// if metrics are disabled.
func NewProvisioningMetrics() ProvisioningMetrics {
	if !IsEnabled() || newPrometheusProvisioningMetrics == nil {
		return nil
	}
	return newPrometheusProvisioningMetrics()
}

var newPrometheusProvisioningMetrics func() ProvisioningMetrics

// RegisterProvisioningMetricsConstructor registers the Prometheus constructor.
func RegisterProvisioningMetricsConstructor(constructor func() ProvisioningMetrics) {
	newPrometheusProvisioningMetrics = constructor
}

// RecordOutcome is a nil-safe wrapper around ProvisioningMetrics.RecordOutcome.
func RecordOutcome(m ProvisioningMetrics, outcome string, duration time.Duration) {
	if m != nil {
		m.RecordOutcome(outcome, duration)
	}
}

// RecordStepFailure is a nil-safe wrapper around ProvisioningMetrics.RecordStepFailure.
func RecordStepFailure(m ProvisioningMetrics, step string) {
	if m != nil {
		m.RecordStepFailure(step)
	}
}
