// file: internal/middleware/rate_limiter_test.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campushire/internal/cache"
	"campushire/internal/contextutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenCache fails every operation, simulating a redis outage
type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(ctx context.Context, key string) error            { return nil }
func (brokenCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (brokenCache) Health(ctx context.Context) error                        { return nil }
func (brokenCache) Close() error                                            { return nil }

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(&cache.Config{}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	if userID > 0 {
		req = req.WithContext(contextutils.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: true, Limit: 3, Window: time.Minute, AuthLimit: 2,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, 0)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: true, Limit: 2, Window: time.Minute, AuthLimit: 2,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	doRequest(handler, 0)
	doRequest(handler, 0)
	rec := doRequest(handler, 0)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_ERROR")
}

func TestRateLimiterSetsHeaders(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: true, Limit: 5, Window: time.Minute, AuthLimit: 2,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	rec := doRequest(handler, 0)

	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: true, Limit: 1, Window: time.Minute, AuthLimit: 1,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, 11).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, 11).Code)

	// A different user has a fresh window
	assert.Equal(t, http.StatusOK, doRequest(handler, 12).Code)
}

func TestRateLimiterAuthLimitIsStricter(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: true, Limit: 100, Window: time.Minute, AuthLimit: 1,
	}, zap.NewNop())
	handler := rl.LimitAuth(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, 0).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, 0).Code)
}

func TestRateLimiterDisabledPassesThrough(t *testing.T) {
	rl := NewRateLimiter(newTestCache(t), &RateLimiterConfig{
		Enabled: false, Limit: 1, Window: time.Minute, AuthLimit: 1,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(handler, 0).Code)
	}
}

func TestRateLimiterFailsOpenOnCacheOutage(t *testing.T) {
	rl := NewRateLimiter(brokenCache{}, &RateLimiterConfig{
		Enabled: true, Limit: 1, Window: time.Minute, AuthLimit: 1,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(handler, 0).Code)
	}
}

func TestRateLimiterWindowResets(t *testing.T) {
	c := newTestCache(t)
	rl := NewRateLimiter(c, &RateLimiterConfig{
		Enabled: true, Limit: 1, Window: 50 * time.Millisecond, AuthLimit: 1,
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, 0).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, 0).Code)

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, http.StatusOK, doRequest(handler, 0).Code)
}
