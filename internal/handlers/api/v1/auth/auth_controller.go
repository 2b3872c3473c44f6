// file: internal/handlers/api/v1/auth/auth_controller.go
package auth

import (
	"encoding/json"
	"net/http"

	"campushire/internal/contextutils"
	"campushire/internal/response"
	"campushire/internal/services"

	"go.uber.org/zap"
)

type AuthController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAuthController creates a new auth controller
func NewAuthController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *AuthController {
	return &AuthController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// RegisterStudent handles student account creation
func (c *AuthController) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.services.Auth.RegisterStudent(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "account created", result)
}

// RegisterCompany handles company account creation
func (c *AuthController) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.services.Auth.RegisterCompany(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "account created", result)
}

// Login handles credential authentication and token issuance
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	result, err := c.services.Auth.Login(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "login successful", result)
}

// Me returns the authenticated account
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID := contextutils.GetUserID(r.Context())

	user, err := c.services.Auth.GetCurrentUser(r.Context(), userID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "current user", user)
}
