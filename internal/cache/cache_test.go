package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/livestock-atlas-go/internal/config"
	"github.com/jengzang/livestock-atlas-go/internal/models"
)

func dataset() *models.Dataset {
	return &models.Dataset{
		Summary: []models.RegionRecord{{ID: "1", Name: "دمياط", Measures: map[string]float64{"total": 10}}},
	}
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	ds := dataset()
	require.NoError(t, m.Set(ctx, ds))
	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, ds, got)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, ds))
	require.NoError(t, m.Invalidate(ctx))
	_, err = m.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRedis(client, "atlas:test", time.Minute)

	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, dataset()))
	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Summary, 1)
	assert.Equal(t, 10.0, got.Summary[0].Measures["total"])

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, dataset()))
	require.NoError(t, c.Invalidate(ctx))
	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCorruptValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	require.NoError(t, mr.Set("atlas:test", "{"))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	_, err = NewRedis(client, "atlas:test", time.Minute).Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNew(t *testing.T) {
	c, err := New(config.CacheConfig{Kind: config.CacheNone})
	require.NoError(t, err)
	_, err = c.Get(context.Background())
	assert.ErrorIs(t, err, ErrMiss)

	c, err = New(config.CacheConfig{Kind: config.CacheMemory, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(config.CacheConfig{Kind: config.CacheRedis, RedisAddr: "localhost:6379", Key: "k", TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)

	_, err = New(config.CacheConfig{Kind: "disk"})
	assert.Error(t, err)
}
