package middleware

import (
	"log/slog"
	"net/http"

	"github.com/smartscholars/accounts/internal/api/apierr"
	"github.com/smartscholars/accounts/internal/middleware"
)

// RateLimit rejects clients over the limiter's budget with 429 RATE_LIMITED
func RateLimit(limiter *middleware.RateLimiter, clientIPs *middleware.ClientIPResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RateLimit(limiter, clientIPs.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		logger.WarnContext(r.Context(), "rate limit exceeded",
			slog.String("ip", clientIPs.ClientIP(r)),
			slog.String("path", routeTemplate(r)),
		)
		apierr.WriteError(w, apierr.NewRateLimitedError())
	})
}
