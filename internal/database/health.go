package database

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Health states reported by the checker.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the result of a single health check.
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency"`
	OpenConns  int           `json:"open_connections"`
	InUseConns int           `json:"in_use_connections"`
	IdleConns  int           `json:"idle_connections"`
	Errors     []string      `json:"errors,omitempty"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// HealthChecker performs ping-based health checks and optional background
// monitoring.
type HealthChecker struct {
	manager *Manager
	logger  *zap.Logger

	mu     sync.RWMutex
	last   *HealthStatus
	stopCh chan struct{}
	once   sync.Once
}

// NewHealthChecker creates a health checker for the given manager.
func NewHealthChecker(manager *Manager, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		manager: manager,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Check pings the database and inspects the pool.
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    StatusHealthy,
		CheckedAt: time.Now(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.manager.DB().PingContext(pingCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, err.Error())
	}
	status.Latency = time.Since(start)

	stats := h.manager.Stats()
	status.OpenConns = stats.OpenConnections
	status.InUseConns = stats.InUse
	status.IdleConns = stats.Idle

	// Saturated pool still serves requests but indicates trouble ahead.
	if status.Status == StatusHealthy && stats.MaxOpenConnections > 0 &&
		stats.InUse == stats.MaxOpenConnections {
		status.Status = StatusDegraded
		status.Errors = append(status.Errors, "connection pool saturated")
	}

	h.mu.Lock()
	h.last = status
	h.mu.Unlock()

	return status
}

// Last returns the most recent check result, or nil before the first check.
func (h *HealthChecker) Last() *HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// StartMonitoring begins periodic background checks.
func (h *HealthChecker) StartMonitoring() {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-h.stopCh:
				return
			case <-ticker.C:
				status := h.Check(context.Background())
				if status.Status != StatusHealthy {
					h.logger.Warn("Background health check failed",
						zap.String("status", status.Status),
						zap.Strings("errors", status.Errors),
					)
				}
			}
		}
	}()
}

// Stop halts background monitoring.
func (h *HealthChecker) Stop() {
	h.once.Do(func() { close(h.stopCh) })
}
