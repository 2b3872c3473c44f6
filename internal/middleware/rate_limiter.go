// file: internal/middleware/rate_limiter.go
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campushire/internal/cache"
	"campushire/internal/contextutils"
	"campushire/internal/response"

	"go.uber.org/zap"
)

// RateLimiterConfig holds rate limiting configuration
type RateLimiterConfig struct {
	Enabled bool
	// Requests allowed per window, per client
	Limit  int
	Window time.Duration
	// Stricter limit applied to authentication endpoints
	AuthLimit int
}

// DefaultRateLimiterConfig returns sensible production defaults
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:   true,
		Limit:     300,
		Window:    time.Minute,
		AuthLimit: 10,
	}
}

// rateWindow is the counter persisted in the cache per client key
type rateWindow struct {
	Count   int       `json:"count"`
	StartAt time.Time `json:"start_at"`
}

// RateLimiter implements fixed-window rate limiting backed by the shared cache,
// so limits hold across instances when Redis is configured
type RateLimiter struct {
	cache   cache.Cache
	config  *RateLimiterConfig
	builder *response.Builder
	logger  *zap.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	return &RateLimiter{
		cache:   c,
		config:  config,
		builder: response.NewBuilder(logger),
		logger:  logger,
	}
}

// Limit applies the default per-client limit
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return rl.limitWith(rl.config.Limit, "rl:api")(next)
}

// LimitAuth applies the stricter limit for login and registration endpoints
func (rl *RateLimiter) LimitAuth(next http.Handler) http.Handler {
	return rl.limitWith(rl.config.AuthLimit, "rl:auth")(next)
}

func (rl *RateLimiter) limitWith(limit int, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.config.Enabled || rl.cache == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("%s:%s", prefix, rl.clientKey(r))
			now := time.Now()

			var window rateWindow
			found, err := rl.cache.Get(r.Context(), key, &window)
			if err != nil {
				// Fail open: a cache outage must not take the API down with it
				GetRequestLogger(r.Context()).Warn("Rate limit check failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !found || now.Sub(window.StartAt) >= rl.config.Window {
				window = rateWindow{Count: 0, StartAt: now}
			}
			window.Count++

			if err := rl.cache.Set(r.Context(), key, window, rl.config.Window); err != nil {
				GetRequestLogger(r.Context()).Warn("Rate limit update failed", zap.Error(err))
			}

			remaining := limit - window.Count
			if remaining < 0 {
				remaining = 0
			}
			resetAt := window.StartAt.Add(rl.config.Window)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if window.Count > limit {
				retryAfter := time.Until(resetAt)
				if retryAfter < 0 {
					retryAfter = 0
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				rl.builder.TooManyRequests(w, r, "rate limit exceeded, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey prefers the authenticated user ID over the client IP so
// shared NATs do not starve each other
func (rl *RateLimiter) clientKey(r *http.Request) string {
	if userID := contextutils.GetUserID(r.Context()); userID > 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return fmt.Sprintf("ip:%s", GetClientIP(r))
}
