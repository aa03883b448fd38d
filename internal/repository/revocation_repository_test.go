package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

func TestMemoryRevocationRepositoryExpires(t *testing.T) {
	repo := NewMemoryRevocationRepository()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "jti-old", now.Add(-time.Minute)))

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = repo.IsRevoked(ctx, "jti-old")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = repo.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "upcoming:2026-03-10", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "upcoming:2026-03-10", []string{"e1"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "*"))
	assert.Error(t, repo.Revoke(ctx, "jti", time.Now().Add(time.Hour)))

	revoked, err := repo.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.NoError(t, repo.Close())
}
