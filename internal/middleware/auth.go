// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"campushire/internal/contextutils"
	"campushire/internal/models"
	"campushire/internal/response"
	"campushire/internal/services"

	"go.uber.org/zap"
)

// AuthMiddleware verifies bearer tokens and enforces role requirements
type AuthMiddleware struct {
	auth    services.AuthService
	builder *response.Builder
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(auth services.AuthService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:    auth,
		builder: response.NewBuilder(logger),
		logger:  logger,
	}
}

// RequireAuth rejects requests without a valid bearer token and injects
// the authenticated user's ID and role into the request context
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			m.builder.Unauthorized(w, r, "missing or malformed authorization header")
			return
		}

		claims, err := m.auth.VerifyToken(r.Context(), token)
		if err != nil {
			GetRequestLogger(r.Context()).Warn("Token verification failed", zap.Error(err))
			m.builder.Unauthorized(w, r, "invalid or expired token")
			return
		}

		ctx := contextutils.WithUserID(r.Context(), claims.UserID)
		ctx = contextutils.WithUserRole(ctx, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches identity when a valid token is present but never
// rejects the request, so public endpoints can personalize results
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.auth.VerifyToken(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextutils.WithUserID(r.Context(), claims.UserID)
		ctx = contextutils.WithUserRole(ctx, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route to one or more roles. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := contextutils.GetUserRole(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			GetRequestLogger(r.Context()).Warn("Role check failed",
				zap.String("role", role),
				zap.Strings("required", roles),
			)
			m.builder.Forbidden(w, r, "insufficient permissions")
		})
	}
}

// RequireStudent gates a route to student accounts
func (m *AuthMiddleware) RequireStudent(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleStudent)(next)
}

// RequireCompany gates a route to company accounts
func (m *AuthMiddleware) RequireCompany(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleCompany)(next)
}

// RequireAdmin gates a route to administrators
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin)(next)
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
