// file: internal/handlers/api/v1/admin/admin_controller.go
package admin

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"campushire/internal/repositories"
	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// defaultTrendDays is the window used when a trend request has no
// explicit from/to range
const defaultTrendDays = 30

type AdminController struct {
	services        *services.Collection
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAdminController creates a new admin controller
func NewAdminController(sc *services.Collection, logger *zap.Logger, rb *response.Builder) *AdminController {
	return &AdminController{
		services:        sc,
		logger:          logger,
		responseBuilder: rb,
	}
}

// Dashboard returns platform-wide aggregates
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := c.services.Analytics.AdminDashboard(r.Context())
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "dashboard retrieved", dashboard)
}

// StatusDistribution returns the application status breakdown for an
// optional job, company or category scope
func (c *AdminController) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	scope, err := c.parseScope(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	distribution, err := c.services.Analytics.StatusDistribution(r.Context(), scope)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "distribution retrieved", distribution)
}

// ApplicationTrend returns bucketed application counts over a window
func (c *AdminController) ApplicationTrend(w http.ResponseWriter, r *http.Request) {
	granularity, from, to, err := c.parseTrendWindow(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}
	scope, err := c.parseScope(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	trend, err := c.services.Analytics.ApplicationTrend(r.Context(), granularity, from, to, scope)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "trend retrieved", trend)
}

// JobViewTrend returns bucketed job view counts over a window
func (c *AdminController) JobViewTrend(w http.ResponseWriter, r *http.Request) {
	granularity, from, to, err := c.parseTrendWindow(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}
	scope, err := c.parseScope(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	trend, err := c.services.Analytics.JobViewTrend(r.Context(), granularity, from, to, scope)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "trend retrieved", trend)
}

// ListUsers returns accounts for the back-office
func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params, err := response.ParsePagination(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	filter := repositories.UserFilter{
		Search:     q.Get("search"),
		Role:       q.Get("role"),
		Pagination: params,
	}
	if filter.IsActive, err = response.QueryBool(q, "is_active"); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Admin.ListUsers(r.Context(), filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "users retrieved", result)
}

// SetUserActive activates or deactivates an account
func (c *AdminController) SetUserActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.pathID(w, r, "userID")
	if !ok {
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	if err := c.services.Admin.SetUserActive(r.Context(), userID, req.Active); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "user updated", nil)
}

// VerifyCompany marks a company profile as verified
func (c *AdminController) VerifyCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := c.pathID(w, r, "companyID")
	if !ok {
		return
	}

	if err := c.services.Admin.VerifyCompany(r.Context(), companyID); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "company verified", nil)
}

// ListApplications returns applications across every company
func (c *AdminController) ListApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	result, err := c.services.Admin.ListApplications(r.Context(), filter)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "applications retrieved", result)
}

// ExportApplications streams a platform-wide CSV of applications
func (c *AdminController) ExportApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := c.parseApplicationFilter(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		`attachment; filename="applications-`+time.Now().UTC().Format("2006-01-02")+`.csv"`)

	writer := csv.NewWriter(w)
	if err := c.services.Admin.ExportApplicationsCSV(r.Context(), filter, writer); err != nil {
		c.logger.Error("application export failed", zap.Error(err))
	}
}

// ListContactMessages returns inbound contact-form submissions
func (c *AdminController) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	params, err := response.ParsePagination(r)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	unresolved, err := response.QueryBool(r.URL.Query(), "unresolved")
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}
	unresolvedOnly := unresolved != nil && *unresolved

	result, err := c.services.Admin.ListContactMessages(r.Context(), params, unresolvedOnly)
	if err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "messages retrieved", result)
}

// ResolveContactMessage marks a contact message as handled
func (c *AdminController) ResolveContactMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := c.pathID(w, r, "messageID")
	if !ok {
		return
	}

	if err := c.services.Admin.ResolveContactMessage(r.Context(), messageID); err != nil {
		c.responseBuilder.Error(w, r, err)
		return
	}

	c.responseBuilder.Success(w, r, "message resolved", nil)
}

// ===============================
// HELPERS
// ===============================

func (c *AdminController) parseApplicationFilter(r *http.Request) (repositories.ApplicationFilter, error) {
	q := r.URL.Query()

	params, err := response.ParsePagination(r)
	if err != nil {
		return repositories.ApplicationFilter{}, err
	}

	filter := repositories.ApplicationFilter{
		Status:     q.Get("status"),
		Search:     q.Get("search"),
		Pagination: params,
	}
	if filter.JobID, err = response.QueryInt64(q, "job_id"); err != nil {
		return filter, err
	}
	if filter.CompanyID, err = response.QueryInt64(q, "company_id"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = response.QueryInt64(q, "category_id"); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = response.QueryDate(q, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = response.QueryDate(q, "date_to"); err != nil {
		return filter, err
	}

	return filter, nil
}

func (c *AdminController) parseScope(r *http.Request) (repositories.AnalyticsScope, error) {
	q := r.URL.Query()
	scope := repositories.AnalyticsScope{}

	var err error
	if scope.JobID, err = response.QueryInt64(q, "job_id"); err != nil {
		return scope, err
	}
	if scope.CompanyID, err = response.QueryInt64(q, "company_id"); err != nil {
		return scope, err
	}
	if scope.CategoryID, err = response.QueryInt64(q, "category_id"); err != nil {
		return scope, err
	}

	return scope, nil
}

func (c *AdminController) parseTrendWindow(r *http.Request) (string, time.Time, time.Time, error) {
	q := r.URL.Query()

	granularity := q.Get("granularity")
	if granularity == "" {
		granularity = repositories.GranularityDay
	}

	to := time.Now().UTC()
	if t, err := response.QueryDate(q, "to"); err != nil {
		return granularity, time.Time{}, time.Time{}, err
	} else if t != nil {
		to = *t
	}

	from := to.AddDate(0, 0, -defaultTrendDays)
	if t, err := response.QueryDate(q, "from"); err != nil {
		return granularity, time.Time{}, time.Time{}, err
	} else if t != nil {
		from = *t
	}

	return granularity, from, to, nil
}

func (c *AdminController) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		c.responseBuilder.Error(w, r, services.NewValidationError("invalid "+name, err))
		return 0, false
	}
	return id, true
}
