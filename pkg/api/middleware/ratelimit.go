package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/ratelimit"
	"github.com/marmos91/gridaccounts/pkg/api/handlers"
	"github.com/marmos91/gridaccounts/pkg/metrics"
)

// RateLimit throttles requests per client IP. route labels the rate-limited
// metric. A nil limiter disables the middleware.
func RateLimit(l *ratelimit.Limiter, route string, m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.Allow(ip, time.Now()) {
				logger.WarnCtx(r.Context(), "Request rate limited", logger.KeyClientIP, ip, logger.KeyPath, r.URL.Path)
				if m != nil {
					m.RecordRateLimited(route)
				}
				handlers.TooManyRequests(w, "Too many requests, retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's remote address without port. RealIP has
// already rewritten RemoteAddr from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
