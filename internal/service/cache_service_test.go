package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis down")
}

func (failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis down")
}

func (failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("redis down")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, NewMetricsService(), 0, nil, true)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, svc.Get(ctx, "k", &out))
	require.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, 0))
	assert.True(t, svc.Get(ctx, "k", &out))
	assert.Equal(t, 1, out["a"])

	require.NoError(t, svc.Invalidate(ctx, "*"))
	assert.False(t, svc.Get(ctx, "k", &out))
}

func TestCacheServiceDegradesOnBackendErrors(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{}, nil, time.Minute, nil, true)
	ctx := context.Background()

	var out string
	assert.False(t, svc.Get(ctx, "k", &out))
	assert.Error(t, svc.Set(ctx, "k", "v", 0))
	assert.Error(t, svc.Invalidate(ctx, "*"))
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, false)
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Set(context.Background(), "k", "v", 0))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}
