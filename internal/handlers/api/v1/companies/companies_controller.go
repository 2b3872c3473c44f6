// file: internal/handlers/api/v1/companies/companies_controller.go
package companies

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campushire/internal/contextutils"
	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxLogoUploadBytes caps the multipart form we are willing to parse
const maxLogoUploadBytes = 6 << 20

type CompanyController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCompanyController creates a new company controller
func NewCompanyController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *CompanyController {
	return &CompanyController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// GetProfile returns the authenticated company's profile
func (c *CompanyController) GetProfile(w http.ResponseWriter, r *http.Request) {
	company, err := c.services.Profiles.GetCompanyProfile(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "profile retrieved", company)
}

// UpdateProfile edits the authenticated company's profile
func (c *CompanyController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateCompanyProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	company, err := c.services.Profiles.UpdateCompanyProfile(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "profile updated", company)
}

// UploadLogo stores a new company logo image
func (c *CompanyController) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLogoUploadBytes); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}

	_, header, err := r.FormFile("logo")
	if err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("logo file is required", err))
		return
	}

	userID := contextutils.GetUserID(r.Context())
	company, err := c.services.Profiles.UploadCompanyLogo(r.Context(), userID, &services.FileUploadRequest{
		UserID: userID,
		File:   header,
		Folder: "logos",
	})
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "logo uploaded", company)
}

// Dashboard returns the company's aggregate hiring statistics
func (c *CompanyController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.services.Analytics.CompanyDashboard(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "dashboard retrieved", dashboard)
}

// GetCompany returns a company's public profile
func (c *CompanyController) GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyID"), 10, 64)
	if err != nil || companyID <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid companyID", err))
		return
	}

	company, err := c.services.Profiles.GetCompany(r.Context(), companyID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "company retrieved", company)
}

// ListCompanies returns the public company directory
func (c *CompanyController) ListCompanies(w http.ResponseWriter, r *http.Request) {
	params, err := response.ParsePagination(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Profiles.ListCompanies(r.Context(), params)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "companies retrieved", result)
}
