package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"campushire/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// DB is the process-wide database manager instance.
var DB *Manager

var initMutex sync.Mutex

// InitDB creates the manager, runs migrations and waits for the database to
// report healthy before returning.
func InitDB(cfg *config.Config, logger *zap.Logger) error {
	initMutex.Lock()
	defer initMutex.Unlock()

	if DB != nil {
		logger.Info("Database manager already initialized")
		return nil
	}

	manager, err := NewManager(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	DB = manager

	migrationsPath := determineMigrationsPath(cfg.Database.MigrationsPath)
	logger.Info("Using migrations path", zap.String("path", migrationsPath))

	if err := manager.Migrate(migrationsPath); err != nil {
		DB = nil
		manager.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := waitForHealth(ctx, manager, logger); err != nil {
		DB = nil
		manager.Close()
		return fmt.Errorf("database failed to become healthy: %w", err)
	}

	manager.health.StartMonitoring()

	return nil
}

// GetDB returns the global manager, or nil before InitDB.
func GetDB() *Manager {
	return DB
}

// Health checks the global manager.
func Health(ctx context.Context) *HealthStatus {
	if DB == nil {
		return &HealthStatus{
			Status: StatusUnhealthy,
			Errors: []string{"database not initialized"},
		}
	}
	return DB.Health(ctx)
}

// waitForHealth polls the health check with doubling backoff until the
// context expires.
func waitForHealth(ctx context.Context, manager *Manager, logger *zap.Logger) error {
	backoff := time.Second
	maxBackoff := 10 * time.Second

	for {
		status := manager.Health(ctx)
		if status.Status == StatusHealthy {
			return nil
		}

		logger.Warn("Database not healthy yet, retrying",
			zap.String("status", status.Status),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for database health: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// determineMigrationsPath falls back through the usual locations so the
// binary works from the repo root and from containers.
func determineMigrationsPath(configured string) string {
	candidates := []string{configured, "migrations", "./migrations", "/app/migrations"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs
		}
	}
	return "migrations"
}
