// file: internal/handlers/api/v1/applications/applications_controller.go
package applications

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campushire/internal/contextutils"
	"campushire/internal/repositories"
	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ApplicationController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewApplicationController creates a new application controller
func NewApplicationController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *ApplicationController {
	return &ApplicationController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// Apply submits an application to a posting on behalf of the
// authenticated student
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	var req services.ApplyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
			return
		}
	}
	req.JobID = jobID
	req.StudentUserID = contextutils.GetUserID(r.Context())

	application, err := c.services.Applications.Apply(r.Context(), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "application submitted", application)
}

// GetApplication retrieves one application, access depending on the
// caller's role
func (c *ApplicationController) GetApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := c.pathID(w, r, "applicationID")
	if !ok {
		return
	}

	ctx := r.Context()
	application, err := c.services.Applications.GetApplication(ctx, contextutils.GetUserID(ctx), contextutils.GetUserRole(ctx), applicationID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "application retrieved", application)
}

// ListStudentApplications returns the authenticated student's applications
func (c *ApplicationController) ListStudentApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Applications.ListStudentApplications(r.Context(), contextutils.GetUserID(r.Context()), filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "applications retrieved", result)
}

// ListJobApplications returns applications for one of the company's postings
func (c *ApplicationController) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Applications.ListJobApplications(r.Context(), contextutils.GetUserID(r.Context()), jobID, filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "applications retrieved", result)
}

// ListCompanyApplications returns applications across all of the
// company's postings
func (c *ApplicationController) ListCompanyApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Applications.ListCompanyApplications(r.Context(), contextutils.GetUserID(r.Context()), filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "applications retrieved", result)
}

// UpdateStatus records a company decision on an application
func (c *ApplicationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := c.pathID(w, r, "applicationID")
	if !ok {
		return
	}

	var req services.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.ApplicationID = applicationID

	application, err := c.services.Applications.UpdateStatus(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "application updated", application)
}

// Withdraw lets the owning student withdraw a pending or scheduled
// application
func (c *ApplicationController) Withdraw(w http.ResponseWriter, r *http.Request) {
	applicationID, ok := c.pathID(w, r, "applicationID")
	if !ok {
		return
	}

	application, err := c.services.Applications.Withdraw(r.Context(), contextutils.GetUserID(r.Context()), applicationID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "application withdrawn", application)
}

// ExportCSV streams the company's applications as a CSV download
func (c *ApplicationController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	filename := fmt.Sprintf("applications-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	writer := csv.NewWriter(w)
	err = c.services.Applications.ExportCompanyApplicationsCSV(r.Context(), contextutils.GetUserID(r.Context()), filter, writer)
	if err != nil {
		// Headers may already be out; if nothing was written yet we can
		// still produce a proper error envelope
		c.logger.Error("csv export failed",
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.Error(err),
		)
		c.responseBuilder.Error(w, r, err)
		return
	}
}

// ===============================
// HELPERS
// ===============================

func (c *ApplicationController) parseApplicationFilter(r *http.Request) (repositories.ApplicationFilter, error) {
	q := r.URL.Query()

	params, err := response.ParsePagination(r)
	if err != nil {
		return repositories.ApplicationFilter{}, err
	}

	filter := repositories.ApplicationFilter{
		Status:     q.Get("status"),
		Search:     q.Get("search"),
		Pagination: params,
	}

	if filter.JobID, err = response.QueryInt64(q, "job_id"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = response.QueryInt64(q, "category_id"); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = response.QueryDate(q, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = response.QueryDate(q, "date_to"); err != nil {
		return filter, err
	}

	return filter, nil
}

func (c *ApplicationController) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid "+name, err))
		return 0, false
	}
	return id, true
}
