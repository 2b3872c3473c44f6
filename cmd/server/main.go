// @title           CampusHire API
// @version         1.0.0
// @description     Job marketplace API connecting students and companies

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:9000
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushire/internal/cache"
	"campushire/internal/config"
	"campushire/internal/database"
	"campushire/internal/middleware"
	"campushire/internal/repositories"
	"campushire/internal/router"
	"campushire/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting CampusHire API",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	if err := database.InitDB(cfg, logger); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	dbManager := database.GetDB()
	defer dbManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	healthStatus := database.Health(ctx)
	cancel()
	if healthStatus.Status == database.StatusUnhealthy {
		logger.Fatal("Database is not healthy",
			zap.String("status", healthStatus.Status),
			zap.Strings("errors", healthStatus.Errors),
		)
	}
	logger.Info("Database ready", zap.String("status", healthStatus.Status))

	appCache, err := cache.New(&cache.Config{
		RedisURL:      cfg.Redis.URL,
		RedisDB:       cfg.Redis.DB,
		RedisPassword: cfg.Redis.Password,
		DefaultTTL:    cfg.Redis.StatsTTL,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer appCache.Close()

	repos := repositories.NewCollection(dbManager, logger)
	serviceCollection := services.NewCollection(repos, cfg, appCache, logger)

	corsOrigin := "*"
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOrigin = cfg.Server.CORSOrigins[0]
	}

	handler := router.New(&router.Config{
		Services:    serviceCollection,
		Cache:       appCache,
		Logger:      logger,
		CORSOrigin:  corsOrigin,
		RateLimiter: middleware.DefaultRateLimiterConfig(),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Serve in the background so the main goroutine can wait on signals
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("HTTP server failed", zap.Error(err))
	case sig := <-stop:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("Server stopped cleanly")
	}
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Server.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.Logging.Format == "console" {
		zapCfg.Encoding = "console"
	} else {
		zapCfg.Encoding = "json"
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
