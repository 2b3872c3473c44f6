// file: internal/services/job_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campushire/internal/cache"
	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"go.uber.org/zap"
)

type jobService struct {
	jobs       repositories.JobRepository
	companies  repositories.CompanyRepository
	students   repositories.StudentRepository
	categories repositories.CategoryRepository
	cache      cache.Cache
	logger     *zap.Logger
}

// NewJobService creates a new job service
func NewJobService(
	jobs repositories.JobRepository,
	companies repositories.CompanyRepository,
	students repositories.StudentRepository,
	categories repositories.CategoryRepository,
	c cache.Cache,
	logger *zap.Logger,
) JobService {
	return &jobService{
		jobs:       jobs,
		companies:  companies,
		students:   students,
		categories: categories,
		cache:      c,
		logger:     logger,
	}
}

// ===============================
// POSTING LIFECYCLE
// ===============================

func (s *jobService) CreateJob(ctx context.Context, companyUserID int64, req *CreateJobRequest) (*models.Job, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid job payload", err)
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, NewValidationError("salary_min cannot exceed salary_max", nil)
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		return nil, NewValidationError("deadline must be in the future", nil)
	}

	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewValidationError("unknown category", nil)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !category.IsActive {
		return nil, NewValidationError("category is no longer active", nil)
	}

	status := models.JobStatusActive
	if req.Draft {
		status = models.JobStatusDraft
	}

	job := &models.Job{
		CompanyID:       company.ID,
		CategoryID:      req.CategoryID,
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		JobType:         req.JobType,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Status:          status,
		MaxApplications: req.MaxApplications,
		Deadline:        req.Deadline,
	}

	if err := s.jobs.Create(ctx, job, req.Tags); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	job.CompanyName = company.Name
	job.CategoryName = category.Name

	s.logger.Info("job created",
		zap.Int64("job_id", job.ID),
		zap.Int64("company_id", company.ID),
		zap.String("status", job.Status),
	)
	invalidateStats(ctx, s.cache, s.logger)
	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID int64, viewerUserID *int64) (*models.Job, error) {
	viewerStudentID := s.resolveViewer(ctx, viewerUserID)

	job, err := s.jobs.GetByID(ctx, jobID, viewerStudentID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	// Draft postings are visible to their owner only; everyone else gets
	// the same 404 as a missing job.
	if job.Status == models.JobStatusDraft {
		if viewerUserID == nil {
			return nil, NewNotFoundError("job not found")
		}
		company, err := s.companies.GetByUserID(ctx, *viewerUserID)
		if err != nil || company.ID != job.CompanyID {
			return nil, NewNotFoundError("job not found")
		}
	}

	if viewerStudentID != nil && job.Status == models.JobStatusActive {
		if err := s.jobs.RecordView(ctx, jobID, *viewerStudentID); err != nil {
			s.logger.Warn("failed to record job view",
				zap.Int64("job_id", jobID),
				zap.Error(err),
			)
		}
	}
	return job, nil
}

func (s *jobService) UpdateJob(ctx context.Context, companyUserID int64, req *UpdateJobRequest) (*models.Job, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid job payload", err)
	}

	job, err := s.requireOwnedJob(ctx, companyUserID, req.JobID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			if repositories.IsNoRows(err) {
				return nil, NewValidationError("unknown category", nil)
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		job.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Location != nil {
		job.Location = req.Location
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return nil, NewValidationError("salary_min cannot exceed salary_max", nil)
	}
	if req.MaxApplications != nil {
		if *req.MaxApplications < job.ApplicationCount {
			return nil, NewBusinessError("application cap cannot be below the current application count", "CAP_BELOW_COUNT")
		}
		job.MaxApplications = req.MaxApplications
	}
	if req.Deadline != nil {
		job.Deadline = req.Deadline
	}

	if err := s.jobs.Update(ctx, job, req.Tags); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// DeleteJob removes a posting. Jobs that already received applications are
// closed instead of deleted so the applicants' history stays intact.
func (s *jobService) DeleteJob(ctx context.Context, companyUserID, jobID int64) error {
	if _, err := s.requireOwnedJob(ctx, companyUserID, jobID); err != nil {
		return err
	}
	closed, err := s.jobs.DeleteOrClose(ctx, jobID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return NewNotFoundError("job not found")
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}
	s.logger.Info("job deleted",
		zap.Int64("job_id", jobID),
		zap.Bool("closed_instead", closed),
	)
	invalidateStats(ctx, s.cache, s.logger)
	return nil
}

func (s *jobService) PublishJob(ctx context.Context, companyUserID, jobID int64) (*models.Job, error) {
	return s.setStatus(ctx, companyUserID, jobID, models.JobStatusActive,
		models.JobStatusDraft, models.JobStatusPaused)
}

func (s *jobService) CloseJob(ctx context.Context, companyUserID, jobID int64) (*models.Job, error) {
	return s.setStatus(ctx, companyUserID, jobID, models.JobStatusClosed,
		models.JobStatusActive, models.JobStatusPaused)
}

func (s *jobService) setStatus(ctx context.Context, companyUserID, jobID int64, target string, allowedFrom ...string) (*models.Job, error) {
	job, err := s.requireOwnedJob(ctx, companyUserID, jobID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, from := range allowedFrom {
		if job.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, NewBusinessError(
			fmt.Sprintf("cannot move job from %s to %s", job.Status, target),
			"INVALID_JOB_TRANSITION",
		)
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, target); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	job.Status = target
	invalidateStats(ctx, s.cache, s.logger)
	return job, nil
}

// ===============================
// SEARCH & LISTING
// ===============================

func (s *jobService) SearchJobs(ctx context.Context, filter repositories.JobFilter, viewerUserID *int64) (*models.PaginatedResponse[*models.Job], error) {
	if filter.Status != "" && !models.IsValidJobStatus(filter.Status) && filter.Status != repositories.SentinelAll {
		return nil, NewValidationError("unknown job status filter", nil)
	}
	if filter.JobType != "" && filter.JobType != repositories.SentinelAll && !models.IsValidJobType(filter.JobType) {
		return nil, NewValidationError("unknown job type filter", nil)
	}

	// Public search never exposes drafts; an open status filter collapses
	// to active postings.
	if filter.Status == "" || filter.Status == repositories.SentinelAll || filter.Status == models.JobStatusDraft {
		filter.Status = models.JobStatusActive
	}
	filter.ViewerStudentID = s.resolveViewer(ctx, viewerUserID)

	result, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, s.mapListError(err, "failed to search jobs")
	}
	return result, nil
}

func (s *jobService) ListCompanyJobs(ctx context.Context, companyUserID int64, params models.PaginationParams, status string) (*models.PaginatedResponse[*models.Job], error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	filter := repositories.JobFilter{
		CompanyID:  &company.ID,
		Status:     status,
		Pagination: params,
	}
	if filter.Status == "" {
		filter.Status = repositories.SentinelAll
	}

	result, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, s.mapListError(err, "failed to list company jobs")
	}
	return result, nil
}

// ===============================
// SAVED JOBS
// ===============================

func (s *jobService) SaveJob(ctx context.Context, studentUserID, jobID int64) error {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return err
	}

	if err := s.jobs.SaveJob(ctx, student.ID, jobID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateSave):
			return NewConflictError("job is already saved", "ALREADY_SAVED")
		case repositories.IsNoRows(err):
			return NewNotFoundError("job not found")
		}
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

func (s *jobService) UnsaveJob(ctx context.Context, studentUserID, jobID int64) error {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return err
	}

	if err := s.jobs.UnsaveJob(ctx, student.ID, jobID); err != nil {
		if errors.Is(err, repositories.ErrNotSaved) {
			return NewNotFoundError("job is not in your saved list")
		}
		return fmt.Errorf("failed to unsave job: %w", err)
	}
	return nil
}

func (s *jobService) GetSavedJobs(ctx context.Context, studentUserID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Job], error) {
	student, err := s.requireStudent(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	result, err := s.jobs.GetSavedJobs(ctx, student.ID, params)
	if err != nil {
		return nil, s.mapListError(err, "failed to list saved jobs")
	}
	return result, nil
}

// ===============================
// HELPERS
// ===============================

func (s *jobService) requireCompany(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("company profile required")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return company, nil
}

func (s *jobService) requireStudent(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("student profile required")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return student, nil
}

// requireOwnedJob loads a job and verifies the caller's company owns it.
// Ownership mismatches read as 404 so job ids cannot be enumerated.
func (s *jobService) requireOwnedJob(ctx context.Context, companyUserID, jobID int64) (*models.Job, error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID, nil)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("job not found")
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.CompanyID != company.ID {
		return nil, NewNotFoundError("job not found")
	}
	return job, nil
}

// resolveViewer maps an authenticated user to their student profile id, if
// they have one. Companies and admins simply get no saved/applied marks.
func (s *jobService) resolveViewer(ctx context.Context, viewerUserID *int64) *int64 {
	if viewerUserID == nil {
		return nil
	}
	student, err := s.students.GetByUserID(ctx, *viewerUserID)
	if err != nil {
		return nil
	}
	return &student.ID
}

func (s *jobService) mapListError(err error, message string) error {
	var sortErr *repositories.InvalidSortError
	if errors.As(err, &sortErr) {
		return NewValidationError(sortErr.Error(), nil)
	}
	return fmt.Errorf("%s: %w", message, err)
}
