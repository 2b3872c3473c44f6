// file: internal/middleware/request_id.go
package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"campushire/internal/contextutils"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ContextKey type for context keys to avoid conflicts
type ContextKey string

const (
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey ContextKey = "logger"
	// RequestStartKey is the context key for the request start time
	RequestStartKey ContextKey = "request_start"
)

// Request ID header constants
const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// RequestID middleware generates and injects unique correlation IDs for request tracing
func RequestID(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Honor an inbound request ID so traces survive proxies
			requestID := r.Header.Get(HeaderXRequestID)
			if requestID == "" {
				requestID = r.Header.Get(HeaderXCorrelationID)
			}
			if requestID == "" {
				if id, err := uuid.NewV4(); err == nil {
					requestID = id.String()
				} else {
					requestID = generateFallbackID(start)
				}
			}

			w.Header().Set(HeaderXRequestID, requestID)
			w.Header().Set(HeaderXCorrelationID, requestID)

			requestLogger := logger.With(
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", GetClientIP(r)),
				zap.String("user_agent", r.UserAgent()),
			)

			ctx := contextutils.WithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, LoggerKey, requestLogger)
			ctx = context.WithValue(ctx, RequestStartKey, start)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestLogger retrieves the request-scoped logger, falling back to a no-op logger
func GetRequestLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// GetRequestStart retrieves the request start time from context
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(RequestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// GetClientIP extracts the client IP, preferring proxy headers when present
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First address in the chain is the originating client
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func generateFallbackID(start time.Time) string {
	return fmt.Sprintf("req-%d", start.UnixNano())
}
