// file: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campushire/internal/contextutils"
	"campushire/internal/models"
	"campushire/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAuthService accepts a single known token and rejects everything else
type fakeAuthService struct {
	validToken string
	claims     *services.TokenClaims
}

func (f *fakeAuthService) RegisterStudent(ctx context.Context, req *services.RegisterStudentRequest) (*services.AuthResult, error) {
	return nil, nil
}

func (f *fakeAuthService) RegisterCompany(ctx context.Context, req *services.RegisterCompanyRequest) (*services.AuthResult, error) {
	return nil, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	return nil, nil
}

func (f *fakeAuthService) VerifyToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	if token == f.validToken {
		return f.claims, nil
	}
	return nil, services.NewUnauthorizedError("invalid or expired token")
}

func (f *fakeAuthService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return nil, nil
}

func newTestAuthMiddleware() *AuthMiddleware {
	return NewAuthMiddleware(&fakeAuthService{
		validToken: "good-token",
		claims:     &services.TokenClaims{UserID: 42, Role: models.RoleStudent, Email: "jane@example.edu"},
	}, zap.NewNop())
}

// captureHandler records the identity the middleware injected
func captureHandler(userID *int64, role *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*userID = contextutils.GetUserID(r.Context())
		*role = contextutils.GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	m := newTestAuthMiddleware()
	var userID int64
	var role string

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	m.RequireAuth(captureHandler(&userID, &role)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, models.RoleStudent, role)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	m := newTestAuthMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestRequireAuthBadToken(t *testing.T) {
	m := newTestAuthMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	rec := httptest.NewRecorder()

	m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthCaseInsensitiveScheme(t *testing.T) {
	m := newTestAuthMiddleware()
	var userID int64
	var role string

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()

	m.RequireAuth(captureHandler(&userID, &role)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	m := newTestAuthMiddleware()
	var userID int64
	var role string

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()

	m.OptionalAuth(captureHandler(&userID, &role)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, userID)
	assert.Empty(t, role)
}

func TestOptionalAuthBadTokenStillPasses(t *testing.T) {
	m := newTestAuthMiddleware()
	var userID int64
	var role string

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	rec := httptest.NewRecorder()

	m.OptionalAuth(captureHandler(&userID, &role)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, userID)
}

func TestOptionalAuthWithToken(t *testing.T) {
	m := newTestAuthMiddleware()
	var userID int64
	var role string

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	m.OptionalAuth(captureHandler(&userID, &role)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), userID)
}

func TestRequireRole(t *testing.T) {
	m := newTestAuthMiddleware()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/company/jobs", nil)
		ctx := contextutils.WithUserRole(req.Context(), models.RoleCompany)
		rec := httptest.NewRecorder()

		m.RequireCompany(ok).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		ctx := contextutils.WithUserRole(req.Context(), models.RoleStudent)
		rec := httptest.NewRecorder()

		m.RequireAdmin(ok).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient permissions")
	})

	t.Run("no role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/students/me", nil)
		rec := httptest.NewRecorder()

		m.RequireStudent(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/shared", nil)
		ctx := contextutils.WithUserRole(req.Context(), models.RoleAdmin)
		rec := httptest.NewRecorder()

		m.RequireRole(models.RoleCompany, models.RoleAdmin)(ok).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase scheme", "bearer abc", "abc"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", ""},
		{"scheme only", "Bearer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(req))
		})
	}
}
