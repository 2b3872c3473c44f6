// file: internal/services/profile_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"campushire/internal/models"
	"campushire/internal/repositories"
	"campushire/internal/validation"

	"go.uber.org/zap"
)

type profileService struct {
	students  repositories.StudentRepository
	companies repositories.CompanyRepository
	users     repositories.UserRepository
	files     FileService
	logger    *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	students repositories.StudentRepository,
	companies repositories.CompanyRepository,
	users repositories.UserRepository,
	files FileService,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		students:  students,
		companies: companies,
		users:     users,
		files:     files,
		logger:    logger,
	}
}

// ===============================
// STUDENT PROFILE
// ===============================

func (s *profileService) GetStudentProfile(ctx context.Context, userID int64) (*models.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("student profile not found")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	if student.Skills, err = s.users.GetSkills(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get skills: %w", err)
	}
	if student.Experiences, err = s.users.GetExperiences(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get experiences: %w", err)
	}
	if student.Links, err = s.users.GetLinks(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}
	return student, nil
}

func (s *profileService) UpdateStudentProfile(ctx context.Context, userID int64, req *UpdateStudentProfileRequest) (*models.Student, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid profile payload", err)
	}
	if req.ExpectedSalaryMin != nil && req.ExpectedSalaryMax != nil && *req.ExpectedSalaryMin > *req.ExpectedSalaryMax {
		return nil, NewValidationError("expected_salary_min cannot exceed expected_salary_max", nil)
	}

	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("student profile not found")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	if req.University != nil {
		student.University = req.University
	}
	if req.Major != nil {
		student.Major = req.Major
	}
	if req.Year != nil {
		student.Year = req.Year
	}
	if req.GPA != nil {
		student.GPA = req.GPA
	}
	if req.Availability != nil {
		student.Availability = *req.Availability
	}
	if req.PreferredJobTypes != nil {
		student.PreferredJobTypes = models.StringArray(req.PreferredJobTypes)
	}
	if req.PreferredLocations != nil {
		student.PreferredLocations = models.StringArray(req.PreferredLocations)
	}
	if req.ExpectedSalaryMin != nil {
		student.ExpectedSalaryMin = req.ExpectedSalaryMin
	}
	if req.ExpectedSalaryMax != nil {
		student.ExpectedSalaryMax = req.ExpectedSalaryMax
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student profile: %w", err)
	}
	return student, nil
}

func (s *profileService) UploadResume(ctx context.Context, userID int64, req *FileUploadRequest) (*models.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("student profile not found")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	req.UserID = userID
	req.Folder = "resumes"
	result, err := s.files.UploadDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	// Replace rather than accumulate: the previous resume is deleted after
	// the new one is committed.
	previous := student.ResumePublicID

	if err := s.students.SetResume(ctx, student.ID, result.URL, result.PublicID); err != nil {
		return nil, fmt.Errorf("failed to store resume reference: %w", err)
	}
	student.ResumeURL = &result.URL
	student.ResumePublicID = &result.PublicID

	if previous != nil && *previous != result.PublicID {
		if err := s.files.DeleteFile(ctx, *previous); err != nil {
			s.logger.Warn("failed to delete previous resume",
				zap.String("public_id", *previous),
				zap.Error(err),
			)
		}
	}
	return student, nil
}

// ===============================
// COMPANY PROFILE
// ===============================

func (s *profileService) GetCompanyProfile(ctx context.Context, userID int64) (*models.Company, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("company profile not found")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return company, nil
}

func (s *profileService) UpdateCompanyProfile(ctx context.Context, userID int64, req *UpdateCompanyProfileRequest) (*models.Company, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid profile payload", err)
	}

	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("company profile not found")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Industry != nil {
		company.Industry = req.Industry
	}
	if req.Description != nil {
		company.Description = req.Description
	}
	if req.Website != nil {
		company.Website = req.Website
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company profile: %w", err)
	}
	return company, nil
}

func (s *profileService) UploadCompanyLogo(ctx context.Context, userID int64, req *FileUploadRequest) (*models.Company, error) {
	company, err := s.companies.GetByUserID(ctx, userID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("company profile not found")
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	req.UserID = userID
	req.Folder = "logos"
	result, err := s.files.UploadImage(ctx, req)
	if err != nil {
		return nil, err
	}

	previous := company.LogoPublicID
	company.LogoURL = &result.URL
	company.LogoPublicID = &result.PublicID

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to store logo reference: %w", err)
	}

	if previous != nil && *previous != result.PublicID {
		if err := s.files.DeleteFile(ctx, *previous); err != nil {
			s.logger.Warn("failed to delete previous logo",
				zap.String("public_id", *previous),
				zap.Error(err),
			)
		}
	}
	return company, nil
}

// ===============================
// PROFILE SUB-RECORDS
// ===============================

func (s *profileService) ReplaceSkills(ctx context.Context, userID int64, req *ReplaceSkillsRequest) ([]models.Skill, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid skills payload", err)
	}
	if err := s.users.ReplaceSkills(ctx, userID, req.Skills); err != nil {
		return nil, fmt.Errorf("failed to replace skills: %w", err)
	}
	return req.Skills, nil
}

func (s *profileService) ReplaceExperiences(ctx context.Context, userID int64, req *ReplaceExperiencesRequest) ([]models.Experience, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid experiences payload", err)
	}
	for _, exp := range req.Experiences {
		if exp.EndDate != nil && exp.EndDate.Before(exp.StartDate) {
			return nil, NewValidationError("experience end_date cannot precede start_date", nil)
		}
	}
	if err := s.users.ReplaceExperiences(ctx, userID, req.Experiences); err != nil {
		return nil, fmt.Errorf("failed to replace experiences: %w", err)
	}
	return req.Experiences, nil
}

func (s *profileService) ReplaceLinks(ctx context.Context, userID int64, req *ReplaceLinksRequest) ([]models.Link, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid links payload", err)
	}
	if err := s.users.ReplaceLinks(ctx, userID, req.Links); err != nil {
		return nil, fmt.Errorf("failed to replace links: %w", err)
	}
	return req.Links, nil
}

func (s *profileService) GetCompany(ctx context.Context, companyID int64) (*models.Company, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, NewNotFoundError("company not found")
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

func (s *profileService) ListCompanies(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Company], error) {
	result, err := s.companies.List(ctx, params)
	if err != nil {
		var sortErr *repositories.InvalidSortError
		if errors.As(err, &sortErr) {
			return nil, NewValidationError(sortErr.Error(), nil)
		}
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return result, nil
}
