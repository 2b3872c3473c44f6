// file: internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"campushire/internal/contextutils"
	"campushire/internal/response"

	"go.uber.org/zap"
)

// Recovery middleware converts panics into 500 responses instead of
// tearing down the connection, and logs the stack for diagnosis
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	builder := response.NewBuilder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestLogger := GetRequestLogger(r.Context())
					requestLogger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("request_id", contextutils.GetRequestID(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)

					builder.InternalError(w, r, "an unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
