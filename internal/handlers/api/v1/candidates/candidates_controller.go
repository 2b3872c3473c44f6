// file: internal/handlers/api/v1/candidates/candidates_controller.go
package candidates

import (
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

type CandidateController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCandidateController creates a new candidate controller
func NewCandidateController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *CandidateController {
	return &CandidateController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// SearchCandidates filters the company's applicant pool
func (c *CandidateController) SearchCandidates(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseCandidateFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Candidates.SearchCandidates(r.Context(), contextutils.GetUserID(r.Context()), filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "candidates retrieved", result)
}

// GetCandidate returns one applicant's full profile
func (c *CandidateController) GetCandidate(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
	if err != nil || studentID <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid studentID", err))
		return
	}

	student, err := c.services.Candidates.GetCandidate(r.Context(), contextutils.GetUserID(r.Context()), studentID)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "candidate retrieved", student)
}

func (c *CandidateController) parseCandidateFilter(r *http.Request) (repositories.CandidateFilter, error) {
	q := r.URL.Query()

	params, err := response.ParsePagination(r)
	if err != nil {
		return repositories.CandidateFilter{}, err
	}

	filter := repositories.CandidateFilter{
		Search:     q.Get("search"),
		University: q.Get("university"),
		Major:      q.Get("major"),
		Location:   q.Get("location"),
		Pagination: params,
	}

	if filter.MinGPA, err = response.QueryFloat(q, "min_gpa"); err != nil {
		return filter, err
	}
	if filter.MaxGPA, err = response.QueryFloat(q, "max_gpa"); err != nil {
		return filter, err
	}
	if filter.Year, err = response.QueryInt(q, "year"); err != nil {
		return filter, err
	}
	if filter.Availability, err = response.QueryBool(q, "available"); err != nil {
		return filter, err
	}
	if v := q.Get("skills"); v != "" {
		parts := strings.Split(v, ",")
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				filter.Skills = append(filter.Skills, trimmed)
			}
		}
	}

	return filter, nil
}
