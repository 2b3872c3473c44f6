package repositories

import (
	"context"
	"time"

	"campushire/internal/models"
)

// ===============================
// FILTERS
// ===============================
// Filter structs carry the recognized query parameters for each list
// endpoint. Zero values mean "no filter"; the ALL sentinel is handled by the
// condition builder.

// JobFilter selects jobs for search and listing.
type JobFilter struct {
	Search     string
	Status     string
	JobType    string
	CategoryID *int64
	CompanyID  *int64
	Location   string
	SalaryMin  *int
	SalaryMax  *int
	Tags       []string
	DateFrom   *time.Time
	DateTo     *time.Time

	// ViewerStudentID marks is_saved/has_applied on each returned job.
	ViewerStudentID *int64

	Pagination models.PaginationParams
}

// ApplicationFilter selects applications for students, companies and admins.
type ApplicationFilter struct {
	JobID      *int64
	StudentID  *int64
	CompanyID  *int64
	CategoryID *int64
	Status     string
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time

	Pagination models.PaginationParams
}

// CandidateFilter selects students for the company-scoped candidate search.
type CandidateFilter struct {
	// CompanyID scopes results to students who applied to this company's
	// jobs. Required for company callers; nil means admin-wide search.
	CompanyID *int64

	Search       string
	University   string
	Major        string
	Location     string
	MinGPA       *float64
	MaxGPA       *float64
	Year         *int
	Availability *bool
	Skills       []string

	Pagination models.PaginationParams
}

// UserFilter selects accounts for the admin back-office.
type UserFilter struct {
	Search   string
	Role     string
	IsActive *bool

	Pagination models.PaginationParams
}

// ===============================
// ANALYTICS TYPES
// ===============================

// Trend granularities.
const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

// AnalyticsScope restricts an aggregation to a job, company, category or
// date window. All fields optional.
type AnalyticsScope struct {
	JobID      *int64
	CompanyID  *int64
	CategoryID *int64
	From       *time.Time
	To         *time.Time
}

// StatusCount is one bucket of a status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TrendPoint is one bucket of a time-bucketed trend.
type TrendPoint struct {
	Period time.Time `json:"period"`
	Count  int64     `json:"count"`
}

// OverviewStats backs the admin stats overview.
type OverviewStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalStudents     int64 `json:"total_students"`
	TotalCompanies    int64 `json:"total_companies"`
	TotalJobs         int64 `json:"total_jobs"`
	ActiveJobs        int64 `json:"active_jobs"`
	TotalApplications int64 `json:"total_applications"`
	TotalJobViews     int64 `json:"total_job_views"`
	TotalCategories   int64 `json:"total_categories"`
}

// CompanyStats backs the company dashboard.
type CompanyStats struct {
	CompanyID            int64 `json:"company_id"`
	TotalJobs            int64 `json:"total_jobs"`
	ActiveJobs           int64 `json:"active_jobs"`
	ClosedJobs           int64 `json:"closed_jobs"`
	TotalApplications    int64 `json:"total_applications"`
	PendingApplications  int64 `json:"pending_applications"`
	AcceptedApplications int64 `json:"accepted_applications"`
	TotalViews           int64 `json:"total_views"`
}

// StudentStats backs the student dashboard.
type StudentStats struct {
	StudentID             int64 `json:"student_id"`
	TotalApplications     int64 `json:"total_applications"`
	PendingApplications   int64 `json:"pending_applications"`
	InterviewApplications int64 `json:"interview_applications"`
	AcceptedApplications  int64 `json:"accepted_applications"`
	SavedJobs             int64 `json:"saved_jobs"`
	JobsViewed            int64 `json:"jobs_viewed"`
}

// TopJob is one row of the top-jobs-by-applications ranking.
type TopJob struct {
	JobID            int64  `json:"job_id"`
	Title            string `json:"title"`
	CompanyName      string `json:"company_name"`
	ApplicationCount int64  `json:"application_count"`
}

// TopCompany is one row of the top-companies-by-applicants ranking.
type TopCompany struct {
	CompanyID      int64  `json:"company_id"`
	Name           string `json:"name"`
	ApplicantCount int64  `json:"applicant_count"`
}

// TopUniversity is one row of the top-universities-among-applicants ranking.
type TopUniversity struct {
	University     string `json:"university"`
	ApplicantCount int64  `json:"applicant_count"`
}

// ===============================
// REPOSITORY INTERFACES
// ===============================

// UserRepository manages accounts and their profile sub-records.
type UserRepository interface {
	CreateStudentAccount(ctx context.Context, user *models.User, student *models.Student) error
	CreateCompanyAccount(ctx context.Context, user *models.User, company *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) (*models.PaginatedResponse[*models.User], error)
	SetActive(ctx context.Context, userID int64, active bool) error
	ReplaceSkills(ctx context.Context, userID int64, skills []models.Skill) error
	ReplaceExperiences(ctx context.Context, userID int64, experiences []models.Experience) error
	ReplaceLinks(ctx context.Context, userID int64, links []models.Link) error
	GetSkills(ctx context.Context, userID int64) ([]models.Skill, error)
	GetExperiences(ctx context.Context, userID int64) ([]models.Experience, error)
	GetLinks(ctx context.Context, userID int64) ([]models.Link, error)
}

// StudentRepository manages student profiles and candidate search.
type StudentRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	SetResume(ctx context.Context, studentID int64, url, publicID string) error
	SearchCandidates(ctx context.Context, filter CandidateFilter) (*models.PaginatedResponse[*models.Student], error)
}

// CompanyRepository manages company profiles.
type CompanyRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Company, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	SetVerified(ctx context.Context, companyID int64, verified bool) error
	List(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse[*models.Company], error)
}

// JobRepository manages postings, tags, saved jobs and view tracking.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job, tags []string) error
	GetByID(ctx context.Context, jobID int64, viewerStudentID *int64) (*models.Job, error)
	Update(ctx context.Context, job *models.Job, tags []string) error
	// DeleteOrClose hard-deletes a job with no applications; otherwise it
	// closes the posting and reports that the history was kept.
	DeleteOrClose(ctx context.Context, jobID int64) (closed bool, err error)
	UpdateStatus(ctx context.Context, jobID int64, status string) error
	List(ctx context.Context, filter JobFilter) (*models.PaginatedResponse[*models.Job], error)

	SaveJob(ctx context.Context, studentID, jobID int64) error
	UnsaveJob(ctx context.Context, studentID, jobID int64) error
	GetSavedJobs(ctx context.Context, studentID int64, params models.PaginationParams) (*models.PaginatedResponse[*models.Job], error)

	RecordView(ctx context.Context, jobID, studentID int64) error
}

// ApplicationRepository manages applications with transactionally-colocated
// counter maintenance on the owning job.
type ApplicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetByJobAndStudent(ctx context.Context, jobID, studentID int64) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) (*models.PaginatedResponse[*models.Application], error)
	UpdateStatus(ctx context.Context, application *models.Application) error
	Withdraw(ctx context.Context, applicationID int64) error
	MarkViewed(ctx context.Context, applicationID int64) error
	StreamAll(ctx context.Context, filter ApplicationFilter, fn func(*models.Application) error) error
}

// CategoryRepository manages the job category lookup.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// DeleteOrDeactivate hard-deletes a category with no jobs; otherwise it
	// deactivates it and reports how many jobs reference it.
	DeleteOrDeactivate(ctx context.Context, id int64) (deactivated bool, jobsAffected int64, err error)
}

// ContactRepository manages public contact-form submissions.
type ContactRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context, params models.PaginationParams, unresolvedOnly bool) (*models.PaginatedResponse[*models.ContactMessage], error)
	Resolve(ctx context.Context, id int64) error
}

// AnalyticsRepository computes grouped counts, distributions and trends.
type AnalyticsRepository interface {
	CountApplicationsByStatus(ctx context.Context, scope AnalyticsScope) ([]StatusCount, error)
	ApplicationTrend(ctx context.Context, granularity string, from, to time.Time, scope AnalyticsScope) ([]TrendPoint, error)
	JobViewTrend(ctx context.Context, granularity string, from, to time.Time, scope AnalyticsScope) ([]TrendPoint, error)
	UserRegistrationTrend(ctx context.Context, granularity string, from, to time.Time) ([]TrendPoint, error)
	Overview(ctx context.Context) (*OverviewStats, error)
	CompanyStats(ctx context.Context, companyID int64) (*CompanyStats, error)
	StudentStats(ctx context.Context, studentID int64) (*StudentStats, error)
	TopJobs(ctx context.Context, limit int, scope AnalyticsScope) ([]TopJob, error)
	TopCompanies(ctx context.Context, limit int) ([]TopCompany, error)
	TopUniversities(ctx context.Context, limit int) ([]TopUniversity, error)
	CountViews(ctx context.Context, scope AnalyticsScope) (int64, error)
	CountApplications(ctx context.Context, scope AnalyticsScope) (int64, error)
}
