// file: internal/handlers/api/v1/students/students_controller.go
package students

import (
	"encoding/json"
	"net/http"

	"campushire/internal/contextutils"
	"campushire/internal/response"
	"campushire/internal/services"

	"go.uber.org/zap"
)

// maxResumeUploadBytes caps the multipart form we are willing to parse
const maxResumeUploadBytes = 12 << 20

type StudentController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewStudentController creates a new student controller
func NewStudentController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *StudentController {
	return &StudentController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// GetProfile returns the authenticated student's profile
func (c *StudentController) GetProfile(w http.ResponseWriter, r *http.Request) {
	student, err := c.services.Profiles.GetStudentProfile(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "profile retrieved", student)
}

// UpdateProfile edits the authenticated student's profile
func (c *StudentController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateStudentProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	student, err := c.services.Profiles.UpdateStudentProfile(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "profile updated", student)
}

// ReplaceSkills replaces the student's skill set in one call
func (c *StudentController) ReplaceSkills(w http.ResponseWriter, r *http.Request) {
	var req services.ReplaceSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	skills, err := c.services.Profiles.ReplaceSkills(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "skills updated", skills)
}

// ReplaceExperiences replaces the student's experience entries in one call
func (c *StudentController) ReplaceExperiences(w http.ResponseWriter, r *http.Request) {
	var req services.ReplaceExperiencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	experiences, err := c.services.Profiles.ReplaceExperiences(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "experiences updated", experiences)
}

// ReplaceLinks replaces the student's external links in one call
func (c *StudentController) ReplaceLinks(w http.ResponseWriter, r *http.Request) {
	var req services.ReplaceLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	links, err := c.services.Profiles.ReplaceLinks(r.Context(), contextutils.GetUserID(r.Context()), &req)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "links updated", links)
}

// UploadResume stores a new resume document and updates the profile
func (c *StudentController) UploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeUploadBytes); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}

	_, header, err := r.FormFile("resume")
	if err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("resume file is required", err))
		return
	}

	userID := contextutils.GetUserID(r.Context())
	student, err := c.services.Profiles.UploadResume(r.Context(), userID, &services.FileUploadRequest{
		UserID: userID,
		File:   header,
		Folder: "resumes",
	})
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "resume uploaded", student)
}

// Dashboard returns the student's aggregate application statistics
func (c *StudentController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.services.Analytics.StudentDashboard(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "dashboard retrieved", dashboard)
}
