// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"campushire/internal/config"
	"campushire/internal/models"
	"campushire/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepo is an in-memory user store for auth tests
type mockUserRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	nextID       int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByEmail: map[string]*models.User{},
		usersByID:    map[int64]*models.User{},
		nextID:       1,
	}
}

func (m *mockUserRepo) CreateStudentAccount(ctx context.Context, user *models.User, student *models.Student) error {
	return m.insert(user)
}

func (m *mockUserRepo) CreateCompanyAccount(ctx context.Context, user *models.User, company *models.Company) error {
	return m.insert(user)
}

// insert snapshots the user so later mutations of the returned struct do
// not rewrite the stored row, mirroring a real database.
func (m *mockUserRepo) insert(user *models.User) error {
	key := strings.ToLower(user.Email)
	if _, exists := m.usersByEmail[key]; exists {
		return repositories.ErrDuplicateEmail
	}
	user.ID = m.nextID
	m.nextID++
	user.IsActive = true
	row := *user
	m.usersByEmail[key] = &row
	m.usersByID[user.ID] = &row
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	row := *user
	return &row, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	row := *user
	return &row, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter repositories.UserFilter) (*models.PaginatedResponse[*models.User], error) {
	return nil, nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, userID int64, active bool) error { return nil }

func (m *mockUserRepo) ReplaceSkills(ctx context.Context, userID int64, skills []models.Skill) error {
	return nil
}

func (m *mockUserRepo) ReplaceExperiences(ctx context.Context, userID int64, experiences []models.Experience) error {
	return nil
}

func (m *mockUserRepo) ReplaceLinks(ctx context.Context, userID int64, links []models.Link) error {
	return nil
}

func (m *mockUserRepo) GetSkills(ctx context.Context, userID int64) ([]models.Skill, error) {
	return nil, nil
}

func (m *mockUserRepo) GetExperiences(ctx context.Context, userID int64) ([]models.Experience, error) {
	return nil, nil
}

func (m *mockUserRepo) GetLinks(ctx context.Context, userID int64) ([]models.Link, error) {
	return nil, nil
}

func newTestAuthService(users repositories.UserRepository) AuthService {
	cfg := &config.AuthConfig{
		JWTSecret:  "test-secret-not-for-production",
		JWTExpiry:  time.Hour,
		BCryptCost: bcrypt.MinCost,
	}
	return NewAuthService(users, cfg, zap.NewNop())
}

func TestRegisterStudentIssuesToken(t *testing.T) {
	users := newMockUserRepo()
	service := newTestAuthService(users)

	result, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email:    "jane@example.edu",
		Password: "correct-horse-battery",
		FullName: "Jane Doe",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleStudent, result.User.Role)
	assert.Empty(t, result.User.PasswordHash, "hash never leaves the service")
}

func TestRegisterDuplicateEmailIsConflict(t *testing.T) {
	users := newMockUserRepo()
	service := newTestAuthService(users)

	_, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	_, err = service.RegisterCompany(context.Background(), &RegisterCompanyRequest{
		Email: "jane@example.edu", Password: "another-password", FullName: "Jane Doe", CompanyName: "Acme",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, "EMAIL_TAKEN", svcErr.Code)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "short", FullName: "Jane Doe",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestLoginRoundTrip(t *testing.T) {
	users := newMockUserRepo()
	service := newTestAuthService(users)

	_, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), &LoginRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	claims, err := service.VerifyToken(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMockUserRepo()
	service := newTestAuthService(users)

	_, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	_, err = service.Login(context.Background(), &LoginRequest{
		Email: "jane@example.edu", Password: "wrong-password",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)
	assert.Equal(t, "invalid email or password", svcErr.Message)
}

func TestLoginUnknownEmailMatchesBadPassword(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.Login(context.Background(), &LoginRequest{
		Email: "nobody@example.edu", Password: "whatever-password",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)
	assert.Equal(t, "invalid email or password", svcErr.Message,
		"unknown address and bad password are indistinguishable")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	users := newMockUserRepo()
	service := newTestAuthService(users)

	result, err := service.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery", FullName: "Jane Doe",
	})
	require.NoError(t, err)
	users.usersByID[result.User.ID].IsActive = false

	_, err = service.Login(context.Background(), &LoginRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery",
	})

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 403, svcErr.StatusCode)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	service := newTestAuthService(newMockUserRepo())

	_, err := service.VerifyToken(context.Background(), "not-a-jwt")

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	users := newMockUserRepo()
	issuer := newTestAuthService(users)
	verifier := NewAuthService(users, &config.AuthConfig{
		JWTSecret: "a-different-secret", JWTExpiry: time.Hour, BCryptCost: bcrypt.MinCost,
	}, zap.NewNop())

	result, err := issuer.RegisterStudent(context.Background(), &RegisterStudentRequest{
		Email: "jane@example.edu", Password: "correct-horse-battery", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(context.Background(), result.Token)

	svcErr := GetServiceError(err)
	require.NotNil(t, svcErr)
	assert.Equal(t, 401, svcErr.StatusCode)
}
