// file: internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is the interface dashboard and statistics services use to avoid
// recomputing aggregates on every request.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
	Health(ctx context.Context) error
	Close() error
}

// Config holds cache configuration.
type Config struct {
	RedisURL      string
	RedisDB       int
	RedisPassword string
	DefaultTTL    time.Duration
}

// New selects redis when a URL is configured, otherwise an in-process map.
func New(cfg *Config, logger *zap.Logger) (Cache, error) {
	if cfg.RedisURL != "" {
		return newRedisCache(cfg, logger)
	}
	logger.Info("No REDIS_URL configured, using in-memory cache")
	return newMemoryCache(logger), nil
}

// ===============================
// REDIS IMPLEMENTATION
// ===============================

type redisCache struct {
	client *redis.Client
	logger *zap.Logger
}

func newRedisCache(cfg *Config, logger *zap.Logger) (Cache, error) {
	options, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		options.Password = cfg.RedisPassword
	}
	if cfg.RedisDB != 0 {
		options.DB = cfg.RedisDB
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis cache connected", zap.String("addr", options.Addr))

	return &redisCache{client: client, logger: logger}, nil
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *redisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCache) Close() error {
	return r.client.Close()
}

// ===============================
// MEMORY IMPLEMENTATION
// ===============================
// Fallback for development and tests; same JSON round-trip semantics as the
// redis implementation so cached values behave identically.

type memoryCache struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	logger *zap.Logger
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

func newMemoryCache(logger *zap.Logger) Cache {
	return &memoryCache{
		items:  make(map[string]memoryItem),
		logger: logger,
	}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && time.Now().After(item.expiresAt)) {
		return false, nil
	}
	if err := json.Unmarshal(item.data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return true, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = memoryItem{data: data, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	// Only trailing-star patterns are used by the services.
	prefix := strings.TrimSuffix(pattern, "*")

	m.mu.Lock()
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Health(ctx context.Context) error { return nil }

func (m *memoryCache) Close() error { return nil }
