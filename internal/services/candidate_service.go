// file: internal/services/candidate_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"campushire/internal/models"
	"campushire/internal/repositories"

	"go.uber.org/zap"
)

type candidateService struct {
	students     repositories.StudentRepository
	companies    repositories.CompanyRepository
	users        repositories.UserRepository
	applications repositories.ApplicationRepository
	logger       *zap.Logger
}

// NewCandidateService creates a new candidate service
func NewCandidateService(
	students repositories.StudentRepository,
	companies repositories.CompanyRepository,
	users repositories.UserRepository,
	applications repositories.ApplicationRepository,
	logger *zap.Logger,
) CandidateService {
	return &candidateService{
		students:     students,
		companies:    companies,
		users:        users,
		applications: applications,
		logger:       logger,
	}
}

// SearchCandidates runs the company-scoped candidate search: only students
// who applied to one of the caller's jobs are visible.
func (s *candidateService) SearchCandidates(ctx context.Context, companyUserID int64, filter repositories.CandidateFilter) (*models.PaginatedResponse[*models.Student], error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}
	filter.CompanyID = &company.ID

	if filter.MinGPA != nil && (*filter.MinGPA < 0 || *filter.MinGPA > 4) {
		return nil, NewValidationError("min_gpa must be between 0 and 4", nil)
	}
	if filter.MaxGPA != nil && (*filter.MaxGPA < 0 || *filter.MaxGPA > 4) {
		return nil, NewValidationError("max_gpa must be between 0 and 4", nil)
	}
	if filter.MinGPA != nil && filter.MaxGPA != nil && *filter.MinGPA > *filter.MaxGPA {
		return nil, NewValidationError("min_gpa cannot exceed max_gpa", nil)
	}

	result, err := s.students.SearchCandidates(ctx, filter)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}
	return result, nil
}

// GetCandidate returns a single applicant's profile with skills,
// experiences and links attached. Students outside the company's applicant
// pool read as 404.
func (s *candidateService) GetCandidate(ctx context.Context, companyUserID, studentID int64) (*models.Student, error) {
	company, err := s.requireCompany(ctx, companyUserID)
	if err != nil {
		return nil, err
	}

	applied, err := s.applications.List(ctx, repositories.ApplicationFilter{
		CompanyID:  &company.ID,
		StudentID:  &studentID,
		Pagination: models.PaginationParams{Page: 1, Limit: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check candidate pool: %w", err)
	}
	if applied.Pagination.TotalItems == 0 {
		return nil, NewNotFoundError("candidate not found")
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("candidate not found")
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	if student.Skills, err = s.users.GetSkills(ctx, student.UserID); err != nil {
		return nil, fmt.Errorf("failed to get candidate skills: %w", err)
	}
	if student.Experiences, err = s.users.GetExperiences(ctx, student.UserID); err != nil {
		return nil, fmt.Errorf("failed to get candidate experiences: %w", err)
	}
	if student.Links, err = s.users.GetLinks(ctx, student.UserID); err != nil {
		return nil, fmt.Errorf("failed to get candidate links: %w", err)
	}
	return student, nil
}

func (s *candidateService) requireCompany(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewForbiddenError("company profile required")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return company, nil
}
