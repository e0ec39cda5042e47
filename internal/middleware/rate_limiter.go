package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"sklink/internal/cache"
	"sklink/internal/contextutils"

	"go.uber.org/zap"
)

// RateLimiter applies a fixed one-minute window per client, counted in the
// shared cache so limits hold across instances when redis backs it.
type RateLimiter struct {
	cache     cache.Cache
	perMinute int
	logger    *zap.Logger
}

// NewRateLimiter creates the rate limiting middleware. perMinute <= 0
// disables limiting.
func NewRateLimiter(c cache.Cache, perMinute int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{cache: c, perMinute: perMinute, logger: logger}
}

// Limit enforces the per-client request budget.
func (rl *RateLimiter) Limit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("ratelimit:%s:%s", rl.clientKey(r), time.Now().Format("200601021504"))
			count, err := rl.cache.Increment(r.Context(), key, time.Minute)
			if err != nil {
				// Limiter failure never blocks traffic.
				rl.logger.Warn("rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(rl.perMinute) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"error":{"type":"RATE_LIMIT_ERROR","message":"too many requests"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey prefers the authenticated actor so shared NATs are not punished
// for one noisy user.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	if actor, ok := contextutils.GetActor(r.Context()); ok {
		return actor.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
