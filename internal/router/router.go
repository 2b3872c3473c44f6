// file: internal/router/router.go
package router

import (
	"net/http"

	"campushire/internal/cache"
	"campushire/internal/database"
	"campushire/internal/handlers/api/v1/admin"
	"campushire/internal/handlers/api/v1/applications"
	"campushire/internal/handlers/api/v1/auth"
	"campushire/internal/handlers/api/v1/candidates"
	"campushire/internal/handlers/api/v1/categories"
	"campushire/internal/handlers/api/v1/companies"
	"campushire/internal/handlers/api/v1/contact"
	"campushire/internal/handlers/api/v1/jobs"
	"campushire/internal/handlers/api/v1/students"
	"campushire/internal/middleware"
	"campushire/internal/response"
	"campushire/internal/services"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Config carries everything the router needs to assemble the handler tree
type Config struct {
	Services    *services.Collection
	Cache       cache.Cache
	Logger      *zap.Logger
	CORSOrigin  string
	RateLimiter *middleware.RateLimiterConfig
}

// New builds the full HTTP handler: global middleware, the versioned API
// and the operational endpoints
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	rb := response.NewBuilder(logger)

	authMW := middleware.NewAuthMiddleware(cfg.Services.Auth, logger)
	limiter := middleware.NewRateLimiter(cfg.Cache, cfg.RateLimiter, logger)

	authController := auth.NewAuthController(cfg.Services, logger, rb)
	jobController := jobs.NewJobController(cfg.Services, logger, rb)
	applicationController := applications.NewApplicationController(cfg.Services, logger, rb)
	candidateController := candidates.NewCandidateController(cfg.Services, logger, rb)
	studentController := students.NewStudentController(cfg.Services, logger, rb)
	companyController := companies.NewCompanyController(cfg.Services, logger, rb)
	categoryController := categories.NewCategoryController(cfg.Services, logger, rb)
	adminController := admin.NewAdminController(cfg.Services, logger, rb)
	contactController := contact.NewContactController(cfg.Services, logger, rb)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.StructuredLogger())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	r.Get("/health", healthHandler(rb))

	// API docs; the JSON spec is generated into ./docs at build time
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, req, "./docs/swagger.json")
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Limit)

		// Public routes; OptionalAuth lets job search personalize
		// is_saved/has_applied marks for logged-in students
		r.Group(func(r chi.Router) {
			r.Use(authMW.OptionalAuth)

			r.Get("/jobs", jobController.SearchJobs)
			r.Get("/jobs/{jobID}", jobController.GetJob)
			r.Get("/companies", companyController.ListCompanies)
			r.Get("/companies/{companyID}", companyController.GetCompany)
			r.Get("/categories", categoryController.ListCategories)
			r.Post("/contact", contactController.Submit)
		})

		// Auth endpoints carry a stricter rate limit
		r.Group(func(r chi.Router) {
			r.Use(limiter.LimitAuth)

			r.Post("/auth/register/student", authController.RegisterStudent)
			r.Post("/auth/register/company", authController.RegisterCompany)
			r.Post("/auth/login", authController.Login)
		})

		// Any authenticated account
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)

			r.Get("/auth/me", authController.Me)
			r.Get("/applications/{applicationID}", applicationController.GetApplication)
		})

		// Student routes
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Use(authMW.RequireStudent)

			r.Get("/students/me", studentController.GetProfile)
			r.Put("/students/me", studentController.UpdateProfile)
			r.Put("/students/me/skills", studentController.ReplaceSkills)
			r.Put("/students/me/experiences", studentController.ReplaceExperiences)
			r.Put("/students/me/links", studentController.ReplaceLinks)
			r.Post("/students/me/resume", studentController.UploadResume)
			r.Get("/students/me/dashboard", studentController.Dashboard)
			r.Get("/students/me/applications", applicationController.ListStudentApplications)
			r.Get("/students/me/saved-jobs", jobController.ListSavedJobs)
			r.Post("/jobs/{jobID}/save", jobController.SaveJob)
			r.Delete("/jobs/{jobID}/save", jobController.UnsaveJob)
			r.Post("/jobs/{jobID}/applications", applicationController.Apply)
			r.Post("/applications/{applicationID}/withdraw", applicationController.Withdraw)
		})

		// Company routes
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Use(authMW.RequireCompany)

			r.Get("/company/profile", companyController.GetProfile)
			r.Put("/company/profile", companyController.UpdateProfile)
			r.Post("/company/profile/logo", companyController.UploadLogo)
			r.Get("/company/dashboard", companyController.Dashboard)

			r.Post("/company/jobs", jobController.CreateJob)
			r.Get("/company/jobs", jobController.ListCompanyJobs)
			r.Put("/company/jobs/{jobID}", jobController.UpdateJob)
			r.Delete("/company/jobs/{jobID}", jobController.DeleteJob)
			r.Post("/company/jobs/{jobID}/publish", jobController.PublishJob)
			r.Post("/company/jobs/{jobID}/close", jobController.CloseJob)
			r.Get("/company/jobs/{jobID}/applications", applicationController.ListJobApplications)

			r.Get("/company/applications", applicationController.ListCompanyApplications)
			r.Get("/company/applications/export", applicationController.ExportCSV)
			r.Patch("/company/applications/{applicationID}/status", applicationController.UpdateStatus)

			r.Get("/company/candidates", candidateController.SearchCandidates)
			r.Get("/company/candidates/{studentID}", candidateController.GetCandidate)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Use(authMW.RequireAdmin)

			r.Get("/admin/dashboard", adminController.Dashboard)
			r.Get("/admin/analytics/status-distribution", adminController.StatusDistribution)
			r.Get("/admin/analytics/application-trend", adminController.ApplicationTrend)
			r.Get("/admin/analytics/view-trend", adminController.JobViewTrend)

			r.Get("/admin/applications", adminController.ListApplications)
			r.Get("/admin/applications/export", adminController.ExportApplications)

			r.Get("/admin/users", adminController.ListUsers)
			r.Patch("/admin/users/{userID}/active", adminController.SetUserActive)
			r.Post("/admin/companies/{companyID}/verify", adminController.VerifyCompany)

			r.Post("/admin/categories", categoryController.CreateCategory)
			r.Put("/admin/categories/{categoryID}", categoryController.UpdateCategory)
			r.Delete("/admin/categories/{categoryID}", categoryController.DeleteCategory)

			r.Get("/admin/contact-messages", adminController.ListContactMessages)
			r.Post("/admin/contact-messages/{messageID}/resolve", adminController.ResolveContactMessage)
		})
	})

	return r
}

// healthHandler reports liveness plus the database health snapshot
func healthHandler(rb *response.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := database.Health(r.Context())
		if status != nil && status.Status == database.StatusUnhealthy {
			rb.Error(w, r, services.NewServiceUnavailableError("database unavailable"))
			return
		}
		rb.Success(w, r, "ok", status)
	}
}
