// file: internal/services/service_collection.go
package services

import (
	"campushire/internal/cache"
	"campushire/internal/config"
	"campushire/internal/repositories"

	"go.uber.org/zap"
)

// Collection bundles every service for dependency injection into the
// handler layer.
type Collection struct {
	Auth         AuthService
	Jobs         JobService
	Applications ApplicationService
	Candidates   CandidateService
	Profiles     ProfileService
	Analytics    AnalyticsService
	Categories   CategoryService
	Admin        AdminService
	Contact      ContactService
	Files        FileService
}

// NewCollection wires the full service graph. A nil file service is
// tolerated when storage credentials are absent; upload endpoints then
// report the storage as unavailable.
func NewCollection(
	repos *repositories.Collection,
	cfg *config.Config,
	c cache.Cache,
	logger *zap.Logger,
) *Collection {
	files, err := NewFileService(&cfg.Cloudinary, nil, logger)
	if err != nil {
		logger.Warn("file storage disabled", zap.Error(err))
		files = &unavailableFileService{}
	}

	return &Collection{
		Auth:         NewAuthService(repos.Users, &cfg.Auth, logger),
		Jobs:         NewJobService(repos.Jobs, repos.Companies, repos.Students, repos.Categories, c, logger),
		Applications: NewApplicationService(repos.Applications, repos.Jobs, repos.Students, repos.Companies, c, logger),
		Candidates:   NewCandidateService(repos.Students, repos.Companies, repos.Users, repos.Applications, logger),
		Profiles:     NewProfileService(repos.Students, repos.Companies, repos.Users, files, logger),
		Analytics:    NewAnalyticsService(repos.Analytics, repos.Companies, repos.Students, c, cfg.Redis.StatsTTL, logger),
		Categories:   NewCategoryService(repos.Categories, logger),
		Admin:        NewAdminService(repos.Users, repos.Companies, repos.Applications, repos.Contact, logger),
		Contact:      NewContactService(repos.Contact, logger),
		Files:        files,
	}
}
