package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"campushire/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Manager owns the PostgreSQL connection pool and exposes instrumented
// query helpers used by every repository.
type Manager struct {
	db      *sql.DB
	logger  *zap.Logger
	metrics *Metrics
	health  *HealthChecker
	config  *config.DatabaseConfig
	mu      sync.RWMutex
}

// NewManager opens a pooled connection and verifies it with a ping.
func NewManager(cfg *config.DatabaseConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	configureConnectionPool(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	manager := &Manager{
		db:     db,
		logger: logger,
		config: cfg,
	}
	manager.metrics = NewMetrics(db, logger)
	manager.health = NewHealthChecker(manager, logger)

	logger.Info("Database manager initialized",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
	)

	return manager, nil
}

func configureConnectionPool(db *sql.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(30 * time.Minute)
}

// DB returns the underlying connection pool.
func (m *Manager) DB() *sql.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Migrate runs pending migrations on a separate connection so the migrator
// cannot close the main pool when it finishes.
func (m *Manager) Migrate(migrationsPath string) error {
	migrationDB, err := sql.Open("postgres", m.config.URL)
	if err != nil {
		return fmt.Errorf("failed to create migration connection: %w", err)
	}
	defer migrationDB.Close()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("migration connection failed: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	currentVersion, dirty, err := migrator.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	m.logger.Info("Migrations completed",
		zap.Uint("from_version", currentVersion),
		zap.Uint("to_version", newVersion),
	)

	return nil
}

// ExecContext executes a statement with slow-query logging and metrics.
func (m *Manager) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := m.db.ExecContext(ctx, query, args...)
	duration := time.Since(start)

	m.metrics.RecordQuery("exec", duration, err)
	if duration > 100*time.Millisecond {
		m.logger.Warn("Slow query detected",
			zap.String("type", "exec"),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}
	if err != nil {
		m.logger.Error("Query execution failed",
			zap.Error(err),
			zap.String("query", truncateQuery(query)),
		)
	}

	return result, err
}

// QueryContext executes a query that returns rows.
func (m *Manager) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := m.db.QueryContext(ctx, query, args...)
	duration := time.Since(start)

	m.metrics.RecordQuery("query", duration, err)
	if duration > 100*time.Millisecond {
		m.logger.Warn("Slow query detected",
			zap.String("type", "query"),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}
	if err != nil {
		m.logger.Error("Query execution failed",
			zap.Error(err),
			zap.String("query", truncateQuery(query)),
		)
	}

	return rows, err
}

// QueryRowContext executes a single-row query.
func (m *Manager) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := m.db.QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	m.metrics.RecordQuery("query_row", duration, nil)
	if duration > 50*time.Millisecond {
		m.logger.Warn("Slow query detected",
			zap.String("type", "query_row"),
			zap.Duration("duration", duration),
			zap.String("query", truncateQuery(query)),
		)
	}

	return row
}

// BeginTx starts a transaction.
func (m *Manager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	start := time.Now()
	tx, err := m.db.BeginTx(ctx, opts)
	m.metrics.RecordQuery("begin_tx", time.Since(start), err)
	if err != nil {
		m.logger.Error("Failed to begin transaction", zap.Error(err))
	}
	return tx, err
}

// Health returns the current health status.
func (m *Manager) Health(ctx context.Context) *HealthStatus {
	return m.health.Check(ctx)
}

// Metrics returns a snapshot of query metrics.
func (m *Manager) Metrics() *MetricsSnapshot {
	return m.metrics.Snapshot()
}

// Stats returns pool statistics.
func (m *Manager) Stats() sql.DBStats {
	return m.db.Stats()
}

// Close shuts down monitoring and closes the pool.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.health != nil {
		m.health.Stop()
	}
	if m.db != nil {
		m.logger.Info("Closing database connection")
		return m.db.Close()
	}
	return nil
}

func truncateQuery(query string) string {
	const maxLength = 200
	if len(query) <= maxLength {
		return query
	}
	return query[:maxLength] + "..."
}
