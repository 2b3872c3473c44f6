// file: internal/repositories/collection.go
package repositories

import (
	"campushire/internal/database"

	"go.uber.org/zap"
)

// Collection bundles every repository for dependency injection into the
// service layer.
type Collection struct {
	Users        UserRepository
	Students     StudentRepository
	Companies    CompanyRepository
	Jobs         JobRepository
	Applications ApplicationRepository
	Categories   CategoryRepository
	Contact      ContactRepository
	Analytics    AnalyticsRepository
}

// NewCollection wires every repository against the shared database manager.
func NewCollection(db *database.Manager, logger *zap.Logger) *Collection {
	return &Collection{
		Users:        NewUserRepository(db, logger),
		Students:     NewStudentRepository(db, logger),
		Companies:    NewCompanyRepository(db, logger),
		Jobs:         NewJobRepository(db, logger),
		Applications: NewApplicationRepository(db, logger),
		Categories:   NewCategoryRepository(db, logger),
		Contact:      NewContactRepository(db, logger),
		Analytics:    NewAnalyticsRepository(db, logger),
	}
}
