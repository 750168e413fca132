package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes. Health routes are
// unauthenticated.
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler creates a health handler with named readiness checks.
// checks may be nil.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "gridacct",
	}))
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Readiness handles GET /health/ready. It returns 503 when any check fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]CheckResult, 0, len(names))
	healthy := true
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		res := CheckResult{Name: name, Status: "healthy", Latency: time.Since(start).String()}
		if err != nil {
			res.Status = "unhealthy"
			res.Error = err.Error()
			healthy = false
		}
		results = append(results, res)
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse(results, "dependency check failed"))
		return
	}
	writeJSON(w, http.StatusOK, healthyResponse(results))
}
