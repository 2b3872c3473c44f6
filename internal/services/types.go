// file: internal/services/types.go
package services

import (
	"mime/multipart"
	"time"

	"campushire/internal/models"
	"campushire/internal/repositories"
)

// ===============================
// AUTH TYPES
// ===============================

// RegisterStudentRequest carries a student registration
type RegisterStudentRequest struct {
	Email      string  `json:"email" validate:"required,email,max=320"`
	Password   string  `json:"password" validate:"required,min=8,max=128"`
	FullName   string  `json:"full_name" validate:"required,min=2,max=150"`
	University *string `json:"university,omitempty" validate:"omitempty,max=255"`
	Major      *string `json:"major,omitempty" validate:"omitempty,max=255"`
	Year       *int    `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
}

// RegisterCompanyRequest carries a company registration
type RegisterCompanyRequest struct {
	Email       string  `json:"email" validate:"required,email,max=320"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	FullName    string  `json:"full_name" validate:"required,min=2,max=150"`
	CompanyName string  `json:"company_name" validate:"required,min=2,max=255"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=255"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
}

// LoginRequest carries a credential check
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// ===============================
// JOB TYPES
// ===============================

// CreateJobRequest carries a new job posting
type CreateJobRequest struct {
	CategoryID      int64      `json:"category_id" validate:"required"`
	Title           string     `json:"title" validate:"required,min=3,max=255"`
	Description     string     `json:"description" validate:"required,min=10"`
	Requirements    *string    `json:"requirements,omitempty"`
	JobType         string     `json:"job_type" validate:"required,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT REMOTE"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	SalaryMin       *int       `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *int       `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	MaxApplications *int       `json:"max_applications,omitempty" validate:"omitempty,min=1"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Draft           bool       `json:"draft,omitempty"`
}

// UpdateJobRequest carries a partial job update; nil fields keep their value
type UpdateJobRequest struct {
	JobID           int64      `json:"-"`
	CategoryID      *int64     `json:"category_id,omitempty"`
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,min=10"`
	Requirements    *string    `json:"requirements,omitempty"`
	JobType         *string    `json:"job_type,omitempty" validate:"omitempty,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT REMOTE"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,max=255"`
	SalaryMin       *int       `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax       *int       `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	MaxApplications *int       `json:"max_applications,omitempty" validate:"omitempty,min=1"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
}

// ===============================
// APPLICATION TYPES
// ===============================

// ApplyRequest carries a student's application to a job
type ApplyRequest struct {
	JobID         int64   `json:"-"`
	StudentUserID int64   `json:"-"`
	CoverLetter   *string `json:"cover_letter,omitempty" validate:"omitempty,max=10000"`
}

// UpdateApplicationStatusRequest carries a company-side status decision
type UpdateApplicationStatusRequest struct {
	ApplicationID     int64      `json:"-"`
	Status            string     `json:"status" validate:"required,oneof=INTERVIEW_SCHEDULED ACCEPTED REJECTED"`
	InterviewDate     *time.Time `json:"interview_date,omitempty"`
	InterviewLocation *string    `json:"interview_location,omitempty" validate:"omitempty,max=255"`
	InterviewNotes    *string    `json:"interview_notes,omitempty" validate:"omitempty,max=5000"`
}

// ===============================
// PROFILE TYPES
// ===============================

// UpdateStudentProfileRequest carries a student profile edit
type UpdateStudentProfileRequest struct {
	University         *string  `json:"university,omitempty" validate:"omitempty,max=255"`
	Major              *string  `json:"major,omitempty" validate:"omitempty,max=255"`
	Year               *int     `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
	GPA                *float64 `json:"gpa,omitempty" validate:"omitempty,min=0,max=4"`
	Availability       *bool    `json:"availability,omitempty"`
	PreferredJobTypes  []string `json:"preferred_job_types,omitempty" validate:"omitempty,dive,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT REMOTE"`
	PreferredLocations []string `json:"preferred_locations,omitempty" validate:"omitempty,max=10,dive,min=1,max=255"`
	ExpectedSalaryMin  *int     `json:"expected_salary_min,omitempty" validate:"omitempty,min=0"`
	ExpectedSalaryMax  *int     `json:"expected_salary_max,omitempty" validate:"omitempty,min=0"`
}

// UpdateCompanyProfileRequest carries a company profile edit
type UpdateCompanyProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
}

// ReplaceSkillsRequest replaces the caller's full skill set
type ReplaceSkillsRequest struct {
	Skills []models.Skill `json:"skills" validate:"required,max=50,dive"`
}

// ReplaceExperiencesRequest replaces the caller's full experience set
type ReplaceExperiencesRequest struct {
	Experiences []models.Experience `json:"experiences" validate:"required,max=50,dive"`
}

// ReplaceLinksRequest replaces the caller's full link set
type ReplaceLinksRequest struct {
	Links []models.Link `json:"links" validate:"required,max=20,dive"`
}

// ===============================
// CATEGORY TYPES
// ===============================

// CreateCategoryRequest carries a new category
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// UpdateCategoryRequest carries a category edit
type UpdateCategoryRequest struct {
	CategoryID  int64   `json:"-"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CategoryDeleteResult reports what happened to a deleted category
type CategoryDeleteResult struct {
	Deactivated  bool  `json:"deactivated"`
	JobsAffected int64 `json:"jobs_affected"`
}

// ===============================
// CONTACT TYPES
// ===============================

// ContactRequest carries a public contact-form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=150"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Subject string `json:"subject" validate:"required,min=2,max=255"`
	Message string `json:"message" validate:"required,min=5,max=10000"`
}

// ===============================
// ANALYTICS TYPES
// ===============================

// StatusDistribution is a zero-filled status breakdown with derived rates.
// Every recognized status appears exactly once even when its count is zero.
type StatusDistribution struct {
	Total          int64                      `json:"total"`
	Statuses       []repositories.StatusCount `json:"statuses"`
	ConversionRate float64                    `json:"conversion_rate"`
	AcceptanceRate float64                    `json:"acceptance_rate"`
}

// TrendReport is a zero-filled, time-bucketed activity series
type TrendReport struct {
	Granularity string                    `json:"granularity"`
	From        time.Time                 `json:"from"`
	To          time.Time                 `json:"to"`
	Points      []repositories.TrendPoint `json:"points"`
	Total       int64                     `json:"total"`
	GrowthRate  float64                   `json:"growth_rate"`
}

// CompanyDashboard aggregates everything the company home screen shows
type CompanyDashboard struct {
	Stats              *repositories.CompanyStats `json:"stats"`
	StatusDistribution *StatusDistribution        `json:"status_distribution"`
	TopJobs            []repositories.TopJob      `json:"top_jobs"`
	RecentTrend        *TrendReport               `json:"recent_trend"`
}

// StudentDashboard aggregates everything the student home screen shows
type StudentDashboard struct {
	Stats              *repositories.StudentStats `json:"stats"`
	StatusDistribution *StatusDistribution        `json:"status_distribution"`
}

// AdminDashboard aggregates the admin stats overview
type AdminDashboard struct {
	Overview        *repositories.OverviewStats  `json:"overview"`
	TopJobs         []repositories.TopJob        `json:"top_jobs"`
	TopCompanies    []repositories.TopCompany    `json:"top_companies"`
	TopUniversities []repositories.TopUniversity `json:"top_universities"`
	UserGrowth      *TrendReport                 `json:"user_growth,omitempty"`
}

// ===============================
// FILE TYPES
// ===============================

// FileUploadRequest carries an uploaded file toward storage
type FileUploadRequest struct {
	UserID int64
	File   *multipart.FileHeader
	Folder string
}

// FileUploadResult reports where the stored file landed
type FileUploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
}
