// file: internal/middleware/structured_logger.go
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// slowRequestThreshold flags requests worth a closer look
const slowRequestThreshold = 2 * time.Second

// responseWriter captures the status code and byte count for access logging
type responseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	written, err := rw.ResponseWriter.Write(data)
	rw.bytesWritten += int64(written)
	return written, err
}

// StructuredLogger middleware emits one access log entry per request with
// status, duration and response size, using the request-scoped logger
func StructuredLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := GetRequestStart(r.Context())
			requestLogger := GetRequestLogger(r.Context())

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			requestLogger.Info("Request started",
				zap.String("query", r.URL.RawQuery),
				zap.Int64("content_length", r.ContentLength),
			)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			requestLogger.Info("Request completed",
				zap.Int("status", rw.status),
				zap.Duration("duration", duration),
				zap.Int64("response_size", rw.bytesWritten),
			)

			if duration > slowRequestThreshold {
				requestLogger.Warn("Slow request detected",
					zap.Duration("duration", duration),
					zap.Duration("threshold", slowRequestThreshold),
				)
			}
		})
	}
}
