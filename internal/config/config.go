package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	Cloudinary CloudinaryConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	CORSOrigins     []string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	SlowQueryThreshold time.Duration
	MigrationsPath     string
}

// RedisConfig holds cache configuration.
type RedisConfig struct {
	URL      string
	DB       int
	Password string
	// StatsTTL bounds how stale cached dashboard statistics may be.
	StatsTTL time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret  string
	JWTExpiry  time.Duration
	BCryptCost int
}

// CloudinaryConfig holds upload configuration.
type CloudinaryConfig struct {
	CloudName   string
	APIKey      string
	APISecret   string
	MaxFileSize int64
	MaxRetries  int
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "9000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     env,
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 15*time.Second),
			CORSOrigins:     []string{getEnv("CORS_ORIGIN", "*")},
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxOpenConns:       getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:    getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowQueryThreshold: getDurationEnv("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			MigrationsPath:     getEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			Password: getEnv("REDIS_PASSWORD", ""),
			StatsTTL: getDurationEnv("STATS_CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			JWTExpiry:  getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			BCryptCost: getIntEnv("BCRYPT_COST", 12),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:      getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
			MaxFileSize: getInt64Env("UPLOAD_MAX_FILE_SIZE", 10<<20),
			MaxRetries:  getIntEnv("UPLOAD_MAX_RETRIES", 3),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLogLevel(env)),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings before the server starts.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.Environment == "production" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.Auth.BCryptCost < 10 || c.Auth.BCryptCost > 15 {
		return fmt.Errorf("BCRYPT_COST must be between 10 and 15, got %d", c.Auth.BCryptCost)
	}
	return nil
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func defaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
