// file: internal/services/interface.go
package services

import (
	"context"
	"time"

	"campushire/internal/models"
	"campushire/internal/repositories"
)

// AuthService handles registration, login and token verification
type AuthService interface {
	RegisterStudent(ctx context.Context, req *RegisterStudentRequest) (*AuthResult, error)
	RegisterCompany(ctx context.Context, req *RegisterCompanyRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
	GetCurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// JobService handles postings, search, saved jobs and view tracking
type JobService interface {
	CreateJob(ctx context.Context, companyUserID int64, req *CreateJobRequest) (*models.Job, error)
	GetJob(ctx context.Context, jobID int64, viewerUserID *int64) (*models.Job, error)
	UpdateJob(ctx context.Context, companyUserID int64, req *UpdateJobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, companyUserID, jobID int64) error
	PublishJob(ctx context.Context, companyUserID, jobID int64) (*models.Job, error)
	CloseJob(ctx context.Context, companyUserID, jobID int64) (*models.Job, error)
	SearchJobs(ctx context.Context, filter repositories.JobFilter, viewerUserID *int64) (*models.PaginatedResponse[*models.Job], error)
	ListCompanyJobs(ctx context.Context, companyUserID int64, params models.PaginationParams, status string) (*models.PaginatedResponse[*models.Job], error)

	SaveJob(ctx context.Context, studentUserID, jobID int64) error
	UnsaveJob(ctx context.Context, studentUserID, jobID int64) error
	GetSavedJobs(ctx context.Context, studentUserID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Job], error)
}

// ApplicationService handles the application lifecycle
type ApplicationService interface {
	Apply(ctx context.Context, req *ApplyRequest) (*models.Application, error)
	GetApplication(ctx context.Context, callerUserID int64, callerRole string, applicationID int64) (*models.Application, error)
	ListStudentApplications(ctx context.Context, studentUserID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error)
	ListJobApplications(ctx context.Context, companyUserID, jobID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error)
	ListCompanyApplications(ctx context.Context, companyUserID int64, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error)
	UpdateStatus(ctx context.Context, companyUserID int64, req *UpdateApplicationStatusRequest) (*models.Application, error)
	Withdraw(ctx context.Context, studentUserID, applicationID int64) (*models.Application, error)
	ExportCompanyApplicationsCSV(ctx context.Context, companyUserID int64, filter repositories.ApplicationFilter, w CSVWriter) error
}

// CSVWriter is the subset of encoding/csv.Writer the export path needs
type CSVWriter interface {
	Write(record []string) error
	Flush()
	Error() error
}

// CandidateService handles the company-scoped candidate search
type CandidateService interface {
	SearchCandidates(ctx context.Context, companyUserID int64, filter repositories.CandidateFilter) (*models.PaginatedResponse[*models.Student], error)
	GetCandidate(ctx context.Context, companyUserID, studentID int64) (*models.Student, error)
}

// ProfileService handles student and company profile management
type ProfileService interface {
	GetStudentProfile(ctx context.Context, userID int64) (*models.Student, error)
	UpdateStudentProfile(ctx context.Context, userID int64, req *UpdateStudentProfileRequest) (*models.Student, error)
	UploadResume(ctx context.Context, userID int64, req *FileUploadRequest) (*models.Student, error)
	GetCompanyProfile(ctx context.Context, userID int64) (*models.Company, error)
	UpdateCompanyProfile(ctx context.Context, userID int64, req *UpdateCompanyProfileRequest) (*models.Company, error)
	UploadCompanyLogo(ctx context.Context, userID int64, req *FileUploadRequest) (*models.Company, error)
	ReplaceSkills(ctx context.Context, userID int64, req *ReplaceSkillsRequest) ([]models.Skill, error)
	ReplaceExperiences(ctx context.Context, userID int64, req *ReplaceExperiencesRequest) ([]models.Experience, error)
	ReplaceLinks(ctx context.Context, userID int64, req *ReplaceLinksRequest) ([]models.Link, error)

	// Public browse endpoints.
	GetCompany(ctx context.Context, companyID int64) (*models.Company, error)
	ListCompanies(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Company], error)
}

// AnalyticsService computes dashboards, distributions and trends
type AnalyticsService interface {
	CompanyDashboard(ctx context.Context, companyUserID int64) (*CompanyDashboard, error)
	StudentDashboard(ctx context.Context, studentUserID int64) (*StudentDashboard, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	StatusDistribution(ctx context.Context, scope repositories.AnalyticsScope) (*StatusDistribution, error)
	ApplicationTrend(ctx context.Context, granularity string, from, to time.Time, scope repositories.AnalyticsScope) (*TrendReport, error)
	JobViewTrend(ctx context.Context, granularity string, from, to time.Time, scope repositories.AnalyticsScope) (*TrendReport, error)
}

// CategoryService handles the category lookup and its admin operations
type CategoryService interface {
	ListCategories(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, req *UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) (*CategoryDeleteResult, error)
}

// AdminService handles the user back-office
type AdminService interface {
	ListUsers(ctx context.Context, filter repositories.UserFilter) (*models.PaginatedResponse[*models.User], error)
	SetUserActive(ctx context.Context, userID int64, active bool) error
	VerifyCompany(ctx context.Context, companyID int64) error
	ListApplications(ctx context.Context, filter repositories.ApplicationFilter) (*models.PaginatedResponse[*models.Application], error)
	ExportApplicationsCSV(ctx context.Context, filter repositories.ApplicationFilter, w CSVWriter) error
	ListContactMessages(ctx context.Context, params models.PaginationParams, unresolvedOnly bool) (*models.PaginatedResponse[*models.ContactMessage], error)
	ResolveContactMessage(ctx context.Context, id int64) error
}

// ContactService handles public contact-form submissions
type ContactService interface {
	Submit(ctx context.Context, req *ContactRequest) (*models.ContactMessage, error)
}

// FileService stores uploaded files
type FileService interface {
	UploadDocument(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error)
	UploadImage(ctx context.Context, req *FileUploadRequest) (*FileUploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}
