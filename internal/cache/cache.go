// Package cache keeps the last loaded dataset for a bounded time
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

// ErrMiss is returned when nothing fresh is cached
var ErrMiss = errors.New("cache miss")

// Cache stores one dataset
type Cache interface {
	Get(ctx context.Context) (*models.Dataset, error)
	Set(ctx context.Context, ds *models.Dataset) error
	Invalidate(ctx context.Context) error
}

// New builds the configured cache
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Kind {
	case config.CacheNone:
		return Noop{}, nil
	case config.CacheMemory:
		return NewMemory(cfg.TTL), nil
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedis(client, cfg.Key, cfg.TTL), nil
	}
	return nil, fmt.Errorf("unknown cache kind %q", cfg.Kind)
}

// Noop never holds anything
type Noop struct{}

func (Noop) Get(context.Context) (*models.Dataset, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, *models.Dataset) error   { return nil }
func (Noop) Invalidate(context.Context) error             { return nil }

// Memory holds the dataset in process
type Memory struct {
	mu      sync.RWMutex
	ds      *models.Dataset
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-process cache
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

// Get returns the cached dataset while it is fresh
func (m *Memory) Get(_ context.Context) (*models.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil || !m.now().Before(m.expires) {
		return nil, ErrMiss
	}
	return m.ds, nil
}

// Set replaces the cached dataset
func (m *Memory) Set(_ context.Context, ds *models.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ds = ds
	m.expires = m.now().Add(m.ttl)
	return nil
}

// Invalidate drops the cached dataset
func (m *Memory) Invalidate(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ds = nil
	return nil
}

// Redis shares the dataset between instances as one JSON value
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

// Get decodes the cached dataset
func (r *Redis) Get(ctx context.Context) (*models.Dataset, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached dataset: %w", err)
	}

	ds := &models.Dataset{}
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("failed to decode cached dataset: %w", err)
	}
	return ds, nil
}

// Set encodes and stores the dataset with the configured TTL
func (r *Redis) Set(ctx context.Context, ds *models.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache dataset: %w", err)
	}
	return nil
}

// Invalidate deletes the cached dataset
func (r *Redis) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached dataset: %w", err)
	}
	return nil
}
