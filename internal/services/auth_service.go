// file: internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campushire/internal/config"
	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the verified identity carried by a bearer token
type TokenClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
}

type authService struct {
	users  repositories.UserRepository
	cfg    *config.AuthConfig
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{users: users, cfg: cfg, logger: logger}
}

// ===============================
// REGISTRATION
// ===============================

func (s *authService) RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration payload", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         models.RoleStudent,
	}
	student := &models.Student{
		University:         req.University,
		Major:              req.Major,
		Year:               req.Year,
		Availability:       true,
		PreferredJobTypes:  models.StringArray{},
		PreferredLocations: models.StringArray{},
	}

	if err := s.users.CreateStudentAccount(ctx, user, student); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, NewConflictError("email is already registered", "EMAIL_TAKEN")
		}
		return nil, fmt.Errorf("failed to register student: %w", err)
	}

	s.logger.Info("student registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return s.issueToken(user)
}

func (s *authService) RegisterCompany(ctx context.Context, req *RegisterCompanyRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration payload", err)
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         models.RoleCompany,
	}
	company := &models.Company{
		Name:     req.CompanyName,
		Industry: req.Industry,
		Website:  req.Website,
	}

	if err := s.users.CreateCompanyAccount(ctx, user, company); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, NewConflictError("email is already registered", "EMAIL_TAKEN")
		}
		return nil, fmt.Errorf("failed to register company: %w", err)
	}

	s.logger.Info("company registered",
		zap.Int64("user_id", user.ID),
		zap.String("company", company.Name),
	)
	return s.issueToken(user)
}

// ===============================
// LOGIN & TOKENS
// ===============================

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login payload", err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNoRows(err) {
			// Same response as a bad password so the endpoint does not leak
			// which addresses exist.
			return nil, NewUnauthorizedError("invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid email or password")
	}

	if !user.IsActive {
		return nil, NewForbiddenError("account is deactivated")
	}

	return s.issueToken(user)
}

func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, NewUnauthorizedError("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, NewUnauthorizedError("invalid token subject")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, NewUnauthorizedError("invalid token subject")
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return &TokenClaims{UserID: userID, Role: role, Email: email}, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *models.User) (*AuthResult, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"role":  user.Role,
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
