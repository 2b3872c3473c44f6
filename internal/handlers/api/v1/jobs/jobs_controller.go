// file: internal/handlers/api/v1/jobs/jobs_controller.go
package jobs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"campushire/internal/contextutils"
	"campushire/internal/repositories"
	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type JobController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewJobController creates a new job controller
func NewJobController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *JobController {
	return &JobController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// SearchJobs handles the public job search
func (c *JobController) SearchJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseJobFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Jobs.SearchJobs(r.Context(), filter, c.viewerID(r))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "jobs retrieved", result)
}

// GetJob handles retrieving a single posting
func (c *JobController) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	job, err := c.services.Jobs.GetJob(r.Context(), jobID, c.viewerID(r))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "job retrieved", job)
}

// CreateJob handles posting creation by a company
func (c *JobController) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req services.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	job, err := c.services.Jobs.CreateJob(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "job created", job)
}

// UpdateJob handles posting edits by the owning company
func (c *JobController) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	var req services.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.JobID = jobID

	job, err := c.services.Jobs.UpdateJob(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "job updated", job)
}

// DeleteJob handles posting removal by the owning company
func (c *JobController) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	if err := c.services.Jobs.DeleteJob(r.Context(), contextutils.GetUserID(r.Context()), jobID); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.NoContent(w, r)
}

// PublishJob moves a draft or paused posting to ACTIVE
func (c *JobController) PublishJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	job, err := c.services.Jobs.PublishJob(r.Context(), contextutils.GetUserID(r.Context()), jobID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "job published", job)
}

// CloseJob moves an active or paused posting to CLOSED
func (c *JobController) CloseJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	job, err := c.services.Jobs.CloseJob(r.Context(), contextutils.GetUserID(r.Context()), jobID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "job closed", job)
}

// ListCompanyJobs returns the authenticated company's own postings,
// drafts included
func (c *JobController) ListCompanyJobs(w http.ResponseWriter, r *http.Request) {
	params, err := response.ParsePagination(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}
	status := r.URL.Query().Get("status")

	result, err := c.services.Jobs.ListCompanyJobs(r.Context(), contextutils.GetUserID(r.Context()), params, status)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "jobs retrieved", result)
}

// SaveJob bookmarks a posting for the authenticated student
func (c *JobController) SaveJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	if err := c.services.Jobs.SaveJob(r.Context(), contextutils.GetUserID(r.Context()), jobID); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Created(w, r, "job saved", nil)
}

// UnsaveJob removes a bookmark
func (c *JobController) UnsaveJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := c.pathID(w, r, "jobID")
	if !ok {
		return
	}

	if err := c.services.Jobs.UnsaveJob(r.Context(), contextutils.GetUserID(r.Context()), jobID); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.NoContent(w, r)
}

// ListSavedJobs returns the authenticated student's bookmarks
func (c *JobController) ListSavedJobs(w http.ResponseWriter, r *http.Request) {
	params, err := response.ParsePagination(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Jobs.GetSavedJobs(r.Context(), contextutils.GetUserID(r.Context()), params)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "saved jobs retrieved", result)
}

// ===============================
// HELPERS
// ===============================

func (c *JobController) parseJobFilter(r *http.Request) (repositories.JobFilter, error) {
	q := r.URL.Query()

	params, err := response.ParsePagination(r)
	if err != nil {
		return repositories.JobFilter{}, err
	}

	filter := repositories.JobFilter{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		JobType:    q.Get("job_type"),
		Location:   q.Get("location"),
		Pagination: params,
	}

	if filter.CategoryID, err = response.QueryInt64(q, "category_id"); err != nil {
		return filter, err
	}
	if filter.CompanyID, err = response.QueryInt64(q, "company_id"); err != nil {
		return filter, err
	}
	if filter.SalaryMin, err = response.QueryInt(q, "salary_min"); err != nil {
		return filter, err
	}
	if filter.SalaryMax, err = response.QueryInt(q, "salary_max"); err != nil {
		return filter, err
	}
	if v := q.Get("tags"); v != "" {
		filter.Tags = splitCSV(v)
	}
	if filter.DateFrom, err = response.QueryDate(q, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = response.QueryDate(q, "date_to"); err != nil {
		return filter, err
	}

	return filter, nil
}

// viewerID returns the authenticated user ID when OptionalAuth attached one
func (c *JobController) viewerID(r *http.Request) *int64 {
	if id := contextutils.GetUserID(r.Context()); id > 0 {
		return &id
	}
	return nil
}

func (c *JobController) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid "+name, err))
		return 0, false
	}
	return id, true
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
