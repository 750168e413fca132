package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/gridaccounts/internal/ratelimit"
	"github.com/marmos91/gridaccounts/pkg/api/auth"
	"github.com/marmos91/gridaccounts/pkg/api/handlers"
	apiMiddleware "github.com/marmos91/gridaccounts/pkg/api/middleware"
	"github.com/marmos91/gridaccounts/pkg/identity"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/provisioning"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Workflow *provisioning.Workflow
	Identity *identity.Coordinator

	// JWT validates admin tokens. Without it the admin routes are not
	// mounted.
	JWT *auth.JWTService

	// Limiter throttles registration per client IP. May be nil.
	Limiter *ratelimit.Limiter

	// Metrics records request metrics. May be nil.
	Metrics metrics.HTTPMetrics

	// Checks are the readiness checks served on /health/ready.
	Checks map[string]handlers.Check
}

// NewRouter creates and configures the chi router with all middleware and routes.
//
// Routes:
//   - GET /health, /health/ready - Probes
//   - POST /api/v1/accounts - Self-service registration (rate limited)
//   - /api/v1/accounts/* - Account administration (admin only)
//   - /api/v1/mappings/* - Identity mapping administration (admin only)
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.RequestLogger(deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(deps.Checks)
	accountHandler := handlers.NewAccountHandler(deps.Workflow, deps.Identity)
	mappingHandler := handlers.NewMappingHandler(deps.Identity)

	health := func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	}
	r.Route("/health", health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/health", health)

		r.With(apiMiddleware.RateLimit(deps.Limiter, "/api/v1/accounts", deps.Metrics)).
			Post("/accounts", accountHandler.Register)

		if deps.JWT == nil {
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.JWTAuth(deps.JWT))
			r.Use(apiMiddleware.RequireAdmin())

			r.Get("/accounts/active", accountHandler.Active)
			r.Get("/accounts/active/count", accountHandler.ActiveCount)
			r.Get("/accounts/{id}", accountHandler.Get)
			r.Delete("/accounts/{id}", accountHandler.Delete)
			r.Post("/accounts/{id}/activate", accountHandler.Activate)

			r.Get("/mappings", mappingHandler.Get)
			r.Get("/mappings/search", mappingHandler.Search)
			r.Put("/mappings/{principal_id}", mappingHandler.Put)
		})
	})

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	return r
}
