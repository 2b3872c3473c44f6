// file: internal/services/application_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campushire/internal/cache"
	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"go.uber.org/zap"
)

type applicationService struct {
	applications repositories.ApplicationRepository
	jobs         repositories.JobRepository
	students     repositories.StudentRepository
	companies    repositories.CompanyRepository
	cache        cache.Cache
	logger       *zap.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(
	applications repositories.ApplicationRepository,
	jobs repositories.JobRepository,
	students repositories.StudentRepository,
	companies repositories.CompanyRepository,
	c cache.Cache,
	logger *zap.Logger,
) ApplicationService {
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		students:     students,
		companies:    companies,
		cache:        c,
		logger:       logger,
	}
}

// ===============================
// APPLY & WITHDRAW
// ===============================

func (s *applicationService) Apply(ctx context.Context, req *ApplyRequest) (*models.Application, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid application payload", err)
	}

	student, err := s.students.GetByUserID(ctx, req.StudentUserID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("student profile required")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	application := &models.Application{
		JobID:       req.JobID,
		StudentID:   student.ID,
		CoverLetter: req.CoverLetter,
	}

	if err := s.applications.Create(ctx, application); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateApplication):
			return nil, NewConflictError("you already applied to this job", "ALREADY_APPLIED")
		case errors.Is(err, repositories.ErrJobNotOpen):
			return nil, NewBusinessError("job is not accepting applications", "JOB_NOT_OPEN")
		case errors.Is(err, repositories.ErrJobFull):
			return nil, NewBusinessError("job has reached its application limit", "JOB_FULL")
		case errors.Is(err, repositories.ErrDeadlinePassed):
			return nil, NewBusinessError("application deadline has passed", "DEADLINE_PASSED")
		case repositories.IsNoRows(err):
			return nil, NewNotFoundError("job not found")
		}
		return nil, fmt.Errorf("failed to apply: %w", err)
	}

	s.logger.Info("application submitted",
		zap.Int64("application_id", application.ID),
		zap.Int64("job_id", application.JobID),
		zap.Int64("student_id", application.StudentID),
	)
	invalidateStats(ctx, s.cache, s.logger)
	return application, nil
}

func (s *applicationService) Withdraw(ctx context.Context, studentUserID, applicationID int64) (*models.Application, error) {
	student, err := s.students.GetByUserID(ctx, studentUserID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("student profile required")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if application.StudentID != student.ID {
		return nil, NewNotFoundError("application not found")
	}

	if !application.CanTransitionTo(models.ApplicationStatusWithdrawn) {
		return nil, NewBusinessError(
			fmt.Sprintf("cannot withdraw an application in status %s", application.Status),
			"INVALID_TRANSITION",
		)
	}

	if err := s.applications.Withdraw(ctx, applicationID); err != nil {
		if errors.Is(err, repositories.ErrApplicationFinalized) {
			return nil, NewBusinessError("application has already reached a final status", "INVALID_TRANSITION")
		}
		return nil, fmt.Errorf("failed to withdraw application: %w", err)
	}
	application.Status = models.ApplicationStatusWithdrawn
	invalidateStats(ctx, s.cache, s.logger)
	return application, nil
}

// ===============================
// STATUS DECISIONS
// ===============================

func (s *applicationService) UpdateStatus(ctx context.Context, companyUserID int64, req *UpdateApplicationStatusRequest) (*models.Application, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid status payload", err)
	}
	if req.Status == models.ApplicationStatusInterviewScheduled && req.InterviewDate == nil {
		return nil, NewValidationError("interview_date is required when scheduling an interview", nil)
	}

	application, err := s.requireCompanyApplication(ctx, companyUserID, req.ApplicationID)
	if err != nil {
		return nil, err
	}

	if !application.CanTransitionTo(req.Status) {
		return nil, NewBusinessError(
			fmt.Sprintf("cannot move application from %s to %s", application.Status, req.Status),
			"INVALID_TRANSITION",
		)
	}

	application.Status = req.Status
	if req.Status == models.ApplicationStatusInterviewScheduled {
		application.InterviewDate = req.InterviewDate
		application.InterviewLocation = req.InterviewLocation
		application.InterviewNotes = req.InterviewNotes
	}

	if err := s.applications.UpdateStatus(ctx, application); err != nil {
		if errors.Is(err, repositories.ErrApplicationFinalized) {
			return nil, NewBusinessError("application has already reached a final status", "INVALID_TRANSITION")
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	s.logger.Info("application status updated",
		zap.Int64("application_id", application.ID),
		zap.String("status", application.Status),
	)
	invalidateStats(ctx, s.cache, s.logger)
	return application, nil
}

// ===============================
// READS
// ===============================

func (s *applicationService) GetApplication(ctx context.Context, callerUserID int64, callerRole string, applicationID int64) (*models.Application, error) {
	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	switch callerRole {
	case models.RoleAdmin:
		return application, nil
	case models.RoleStudent:
		student, err := s.students.GetByUserID(ctx, callerUserID)
		if err != nil || application.StudentID != student.ID {
			return nil, NewNotFoundError("application not found")
		}
		return application, nil
	case models.RoleCompany:
		if _, err := s.requireCompanyApplication(ctx, callerUserID, applicationID); err != nil {
			return nil, err
		}
		// First company read marks the application as seen.
		if application.ViewedAt == nil {
			if err := s.applications.MarkViewed(ctx, applicationID); err != nil {
				s.logger.Warn("failed to mark application viewed",
					zap.Int64("application_id", applicationID),
					zap.Error(err),
				)
			}
		}
		return application, nil
	}
	return nil, NewForbiddenError("insufficient permissions")
}

func (s *applicationService) ListStudentApplications(ctx context.Context, studentUserID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	student, err := s.students.GetByUserID(ctx, studentUserID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("student profile required")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	filter.StudentID = &student.ID
	return s.list(ctx, filter)
}

func (s *applicationService) ListJobApplications(ctx context.Context, companyUserID, jobID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
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

	filter.JobID = &jobID
	return s.list(ctx, filter)
}

func (s *applicationService) ListCompanyApplications(ctx context.Context, companyUserID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	filter.CompanyID = &company.ID
	return s.list(ctx, filter)
}

func (s *applicationService) list(ctx context.Context, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error) {
	if filter.Status != "" && filter.Status != repositories.SentinelAll && !models.IsValidApplicationStatus(filter.Status) {
		return nil, NewValidationError("unknown application status filter", nil)
	}

	result, err := s.applications.List(ctx, filter)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return result, nil
}

// ===============================
// CSV EXPORT
// ===============================

var applicationCSVHeader = []string{
	"application_id", "job_title", "company", "student_name", "student_email",
	"university", "major", "gpa", "status", "applied_at", "responded_at",
}

// ExportCompanyApplicationsCSV streams the company's applications through
// the given CSV writer, one row per application.
func (s *applicationService) ExportCompanyApplicationsCSV(ctx context.Context, companyUserID int64, filter repositories.ApplicationFilter, w CSVWriter) error {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return err
	}
	filter.CompanyID = &company.ID

	if err := w.Write(applicationCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	err = s.applications.StreamAll(ctx, filter, func(app *models.Application) error {
		return w.Write(applicationCSVRow(app))
	})
	if err != nil {
		return fmt.Errorf("failed to export applications: %w", err)
	}

	w.Flush()
	return w.Error()
}

func applicationCSVRow(app *models.Application) []string {
	gpa := ""
	if app.GPA != nil {
		gpa = strconv.FormatFloat(*app.GPA, 'f', 2, 64)
	}
	respondedAt := ""
	if app.RespondedAt != nil {
		respondedAt = app.RespondedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(app.ID, 10),
		app.JobTitle,
		app.CompanyName,
		app.StudentName,
		app.StudentEmail,
		derefString(app.University),
		derefString(app.Major),
		gpa,
		app.Status,
		app.AppliedAt.Format(time.RFC3339),
		respondedAt,
	}
}

// ===============================
// HELPERS
// ===============================

func (s *applicationService) requireCompany(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("company profile required")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return company, nil
}

// requireCompanyApplication loads an application and verifies the caller's
// company owns the job it targets. Mismatches read as 404.
func (s *applicationService) requireCompanyApplication(ctx context.Context, companyUserID, applicationID int64) (*models.Application, error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	application, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("application not found")
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	job, err := s.jobs.GetByID(ctx, application.JobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get application job: %w", err)
	}
	if job.CompanyID != company.ID {
		return nil, NewNotFoundError("application not found")
	}
	return application, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
