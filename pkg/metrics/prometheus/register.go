// Package prometheus provides the Prometheus implementations behind the
// pkg/metrics interfaces. Import it for side effects to enable them:
//
//	import _ "github.com/marmos91/gridaccounts/pkg/metrics/prometheus"
package prometheus

import "github.com/marmos91/gridaccounts/pkg/metrics"

func init() {
	metrics.RegisterIdentityMetricsConstructor(NewIdentityMetrics)
	metrics.RegisterProvisioningMetricsConstructor(NewProvisioningMetrics)
	metrics.RegisterHTTPMetricsConstructor(NewHTTPMetrics)
}
