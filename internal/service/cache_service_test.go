package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type erroringCacheRepo struct{}

func (erroringCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (erroringCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (erroringCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, NewMetricsService(), 0, zap.NewNop(), true)
	ctx := context.Background()

	var out []string
	assert.False(t, svc.Get(ctx, "upcoming:2026-03-10", &out))

	svc.Set(ctx, "upcoming:2026-03-10", []string{"e1"}, 0)
	require.True(t, svc.Get(ctx, "upcoming:2026-03-10", &out))
	assert.Equal(t, []string{"e1"}, out)

	svc.Invalidate(ctx, "*")
	assert.False(t, svc.Get(ctx, "upcoming:2026-03-10", &out))
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	svc.Set(context.Background(), "k", "v", 0)
	assert.Empty(t, repo.items)
	assert.False(t, svc.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Get(context.Background(), "k", new(string)))
}

func TestCacheServiceTreatsErrorsAsMisses(t *testing.T) {
	svc := NewCacheService(erroringCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out string
	assert.False(t, svc.Get(ctx, "k", &out))
	svc.Set(ctx, "k", "v", 0)
	svc.Invalidate(ctx, "*")
}
