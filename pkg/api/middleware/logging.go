package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/metrics"
)

// RequestLogger attaches a LogContext and a server span to each request,
// logs its completion and records request metrics. m may be nil.
//
// It must run after chi's RequestID and RealIP middleware.
func RequestLogger(m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())
			ip := clientIP(r)

			ctx, span := telemetry.StartSpan(r.Context(), "http "+r.Method)
			defer span.End()
			telemetry.SetAttributes(ctx, telemetry.RequestID(requestID), telemetry.ClientIP(ip))

			lc := logger.NewLogContext(ip)
			lc.RequestID = requestID
			lc = lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
			ctx = logger.WithContext(ctx, lc)

			logger.DebugCtx(ctx, "API request started",
				logger.KeyMethod, r.Method,
				logger.KeyPath, r.URL.Path,
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)

			logger.InfoCtx(ctx, "API request completed",
				logger.KeyMethod, r.Method,
				logger.KeyPath, r.URL.Path,
				logger.KeyStatus, status,
				"bytes", ww.BytesWritten(),
				logger.KeyDurationMs, float64(duration.Microseconds())/1000.0,
			)

			if m != nil {
				m.RecordRequest(r.Method, routePattern(r), status, duration)
			}
		})
	}
}

// routePattern returns the matched chi route, e.g. "/api/v1/accounts/{id}",
// so metrics do not carry raw ids.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
