// file: internal/models/models.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// ===============================
// ENUMERATIONS
// ===============================

// User roles
const (
	RoleStudent = "STUDENT"
	RoleCompany = "COMPANY"
	RoleAdmin   = "ADMIN"
)

// Job statuses
const (
	JobStatusDraft   = "DRAFT"
	JobStatusActive  = "ACTIVE"
	JobStatusPaused  = "PAUSED"
	JobStatusClosed  = "CLOSED"
	JobStatusExpired = "EXPIRED"
)

// Application statuses
const (
	ApplicationStatusPending            = "PENDING"
	ApplicationStatusInterviewScheduled = "INTERVIEW_SCHEDULED"
	ApplicationStatusAccepted           = "ACCEPTED"
	ApplicationStatusRejected           = "REJECTED"
	ApplicationStatusWithdrawn          = "WITHDRAWN"
)

// JobStatuses lists every recognized job status.
var JobStatuses = []string{
	JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed, JobStatusExpired,
}

// ApplicationStatuses lists every recognized application status; aggregation
// consumers rely on this ordering for zero-filled distributions.
var ApplicationStatuses = []string{
	ApplicationStatusPending,
	ApplicationStatusInterviewScheduled,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// IsValidJobStatus reports whether s is a recognized job status.
func IsValidJobStatus(s string) bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidApplicationStatus reports whether s is a recognized application status.
func IsValidApplicationStatus(s string) bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// JobTypes lists the supported employment arrangements.
var JobTypes = []string{"FULL_TIME", "PART_TIME", "INTERNSHIP", "CONTRACT", "REMOTE"}

// IsValidJobType reports whether s is a recognized job type.
func IsValidJobType(s string) bool {
	for _, v := range JobTypes {
		if v == s {
			return true
		}
	}
	return false
}

// ===============================
// CORE ENTITIES
// ===============================

// User represents an account record; a Student or Company profile hangs off
// it depending on role.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email,max=320"`
	PasswordHash string `json:"-" db:"password_hash"`
	FullName     string `json:"full_name" db:"full_name" validate:"required,min=2,max=150"`
	Role         string `json:"role" db:"role" validate:"required,oneof=STUDENT COMPANY ADMIN"`
	IsActive     bool   `json:"is_active" db:"is_active"`
	IsVerified   bool   `json:"is_verified" db:"is_verified"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined profile (role-dependent, not in users table)
	Student *Student `json:"student,omitempty" db:"-"`
	Company *Company `json:"company,omitempty" db:"-"`
}

// Student extends a User with an academic profile.
type Student struct {
	ID                 int64       `json:"id" db:"id"`
	UserID             int64       `json:"user_id" db:"user_id" validate:"required"`
	University         *string     `json:"university,omitempty" db:"university" validate:"omitempty,max=255"`
	Major              *string     `json:"major,omitempty" db:"major" validate:"omitempty,max=255"`
	Year               *int        `json:"year,omitempty" db:"year" validate:"omitempty,min=1,max=6"`
	GPA                *float64    `json:"gpa,omitempty" db:"gpa" validate:"omitempty,min=0,max=4"`
	Availability       bool        `json:"availability" db:"availability"`
	PreferredJobTypes  StringArray `json:"preferred_job_types" db:"preferred_job_types"`
	PreferredLocations StringArray `json:"preferred_locations" db:"preferred_locations"`
	ExpectedSalaryMin  *int        `json:"expected_salary_min,omitempty" db:"expected_salary_min" validate:"omitempty,min=0"`
	ExpectedSalaryMax  *int        `json:"expected_salary_max,omitempty" db:"expected_salary_max" validate:"omitempty,min=0"`
	ResumeURL          *string     `json:"resume_url,omitempty" db:"resume_url"`
	ResumePublicID     *string     `json:"-" db:"resume_public_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined fields
	Email       string       `json:"email,omitempty" db:"-"`
	FullName    string       `json:"full_name,omitempty" db:"-"`
	Skills      []Skill      `json:"skills,omitempty" db:"-"`
	Experiences []Experience `json:"experiences,omitempty" db:"-"`
	Links       []Link       `json:"links,omitempty" db:"-"`
}

// Company extends a User with an organization profile.
type Company struct {
	ID           int64   `json:"id" db:"id"`
	UserID       int64   `json:"user_id" db:"user_id" validate:"required"`
	Name         string  `json:"name" db:"name" validate:"required,min=2,max=255"`
	Industry     *string `json:"industry,omitempty" db:"industry" validate:"omitempty,max=255"`
	Description  *string `json:"description,omitempty" db:"description" validate:"omitempty,max=5000"`
	Website      *string `json:"website,omitempty" db:"website" validate:"omitempty,url"`
	LogoURL      *string `json:"logo_url,omitempty" db:"logo_url"`
	LogoPublicID *string `json:"-" db:"logo_public_id"`
	IsVerified   bool    `json:"is_verified" db:"is_verified"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed fields
	JobsCount int `json:"jobs_count,omitempty" db:"-"`
}

// Job represents a posted position owned by a Company.
type Job struct {
	ID              int64   `json:"id" db:"id"`
	CompanyID       int64   `json:"company_id" db:"company_id" validate:"required"`
	CategoryID      int64   `json:"category_id" db:"category_id" validate:"required"`
	Title           string  `json:"title" db:"title" validate:"required,min=3,max=255"`
	Description     string  `json:"description" db:"description" validate:"required,min=10"`
	Requirements    *string `json:"requirements,omitempty" db:"requirements"`
	JobType         string  `json:"job_type" db:"job_type" validate:"required,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT REMOTE"`
	Location        *string `json:"location,omitempty" db:"location" validate:"omitempty,max=255"`
	SalaryMin       *int    `json:"salary_min,omitempty" db:"salary_min" validate:"omitempty,min=0"`
	SalaryMax       *int    `json:"salary_max,omitempty" db:"salary_max" validate:"omitempty,min=0"`
	Status          string  `json:"status" db:"status" validate:"required,oneof=DRAFT ACTIVE PAUSED CLOSED EXPIRED"`
	MaxApplications *int    `json:"max_applications,omitempty" db:"max_applications" validate:"omitempty,min=1"`

	// Cached count of applications; maintained inside the same transaction
	// as the application write so it cannot drift.
	ApplicationCount int `json:"application_count" db:"application_count"`
	ViewCount        int `json:"view_count" db:"view_count"`

	Deadline  *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	// Joined fields
	CompanyName  string      `json:"company_name,omitempty" db:"-"`
	CategoryName string      `json:"category_name,omitempty" db:"-"`
	Tags         StringArray `json:"tags,omitempty" db:"-"`
	IsSaved      bool        `json:"is_saved,omitempty" db:"-"`
	HasApplied   bool        `json:"has_applied,omitempty" db:"-"`
}

// Application joins a Student to a Job with a mutable status.
// The (job_id, student_id) pair is unique.
type Application struct {
	ID          int64   `json:"id" db:"id"`
	JobID       int64   `json:"job_id" db:"job_id" validate:"required"`
	StudentID   int64   `json:"student_id" db:"student_id" validate:"required"`
	Status      string  `json:"status" db:"status" validate:"required,oneof=PENDING INTERVIEW_SCHEDULED ACCEPTED REJECTED WITHDRAWN"`
	CoverLetter *string `json:"cover_letter,omitempty" db:"cover_letter" validate:"omitempty,max=10000"`

	AppliedAt   time.Time  `json:"applied_at" db:"applied_at"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty" db:"viewed_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty" db:"responded_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	// Interview metadata
	InterviewDate     *time.Time `json:"interview_date,omitempty" db:"interview_date"`
	InterviewLocation *string    `json:"interview_location,omitempty" db:"interview_location"`
	InterviewNotes    *string    `json:"interview_notes,omitempty" db:"interview_notes"`

	// Joined fields
	JobTitle     string   `json:"job_title,omitempty" db:"-"`
	CompanyName  string   `json:"company_name,omitempty" db:"-"`
	StudentName  string   `json:"student_name,omitempty" db:"-"`
	StudentEmail string   `json:"student_email,omitempty" db:"-"`
	University   *string  `json:"university,omitempty" db:"-"`
	Major        *string  `json:"major,omitempty" db:"-"`
	GPA          *float64 `json:"gpa,omitempty" db:"-"`
	ResumeURL    *string  `json:"resume_url,omitempty" db:"-"`
}

// CanTransitionTo reports whether an application may move from its current
// status to target. ACCEPTED, REJECTED and WITHDRAWN are terminal.
func (a *Application) CanTransitionTo(target string) bool {
	switch a.Status {
	case ApplicationStatusPending:
		return target == ApplicationStatusInterviewScheduled ||
			target == ApplicationStatusAccepted ||
			target == ApplicationStatusRejected ||
			target == ApplicationStatusWithdrawn
	case ApplicationStatusInterviewScheduled:
		return target == ApplicationStatusAccepted ||
			target == ApplicationStatusRejected ||
			target == ApplicationStatusWithdrawn
	default:
		return false
	}
}

// IsTerminal reports whether the application status permits no further
// transitions.
func (a *Application) IsTerminal() bool {
	switch a.Status {
	case ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// SavedJob joins a Student to a Job they bookmarked; unique on the pair.
type SavedJob struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"student_id" db:"student_id" validate:"required"`
	JobID     int64     `json:"job_id" db:"job_id" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined job summary
	Job *Job `json:"job,omitempty" db:"-"`
}

// JobView records that a student viewed a job; drives recency analytics.
type JobView struct {
	ID        int64     `json:"id" db:"id"`
	JobID     int64     `json:"job_id" db:"job_id" validate:"required"`
	StudentID int64     `json:"student_id" db:"student_id" validate:"required"`
	ViewedAt  time.Time `json:"viewed_at" db:"viewed_at"`
}

// Category is a lookup entity; one-to-many with Job. A category with jobs is
// deactivated on delete, never removed.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,min=2,max=100"`
	Description *string   `json:"description,omitempty" db:"description" validate:"omitempty,max=1000"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Computed fields
	JobsCount int `json:"jobs_count,omitempty" db:"-"`
}

// Tag is a lookup entity; many-to-many with Job.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required,min=1,max=50"`
}

// ===============================
// PROFILE SUB-RECORDS
// ===============================
// Skills, Experiences and Links are owned by a User and replaced wholesale on
// profile edit inside a single transaction.

// Skill is a freeform profile sub-record.
type Skill struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name" validate:"required,min=1,max=100"`
	Level  string `json:"level" db:"level" validate:"required,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
}

// Experience is a freeform profile sub-record.
type Experience struct {
	ID          int64      `json:"id" db:"id"`
	UserID      int64      `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title" validate:"required,min=2,max=255"`
	Company     string     `json:"company" db:"company" validate:"required,min=1,max=255"`
	Description *string    `json:"description,omitempty" db:"description" validate:"omitempty,max=5000"`
	StartDate   time.Time  `json:"start_date" db:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
}

// Link is a freeform profile sub-record.
type Link struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"user_id" db:"user_id"`
	Label  string `json:"label" db:"label" validate:"required,min=1,max=100"`
	URL    string `json:"url" db:"url" validate:"required,url,max=500"`
}

// ContactMessage is a public contact-form submission handled in the admin
// back-office.
type ContactMessage struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" validate:"required,min=2,max=150"`
	Email      string    `json:"email" db:"email" validate:"required,email,max=320"`
	Subject    string    `json:"subject" db:"subject" validate:"required,min=2,max=255"`
	Message    string    `json:"message" db:"message" validate:"required,min=5,max=10000"`
	IsResolved bool      `json:"is_resolved" db:"is_resolved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ===============================
// ARRAY COLUMN SUPPORT
// ===============================

// StringArray maps a PostgreSQL text[] column.
type StringArray []string

// Scan implements sql.Scanner.
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case string:
		v = strings.Trim(v, "{}")
		if v == "" {
			*s = StringArray{}
			return nil
		}
		parts := strings.Split(v, ",")
		for i, p := range parts {
			parts[i] = strings.Trim(p, `"`)
		}
		*s = StringArray(parts)
	case []byte:
		return s.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
	return nil
}
