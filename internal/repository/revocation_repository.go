package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRevocationRepository tracks revoked session ids in process.
type MemoryRevocationRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationRepository constructs an empty revocation list.
func NewMemoryRevocationRepository() *MemoryRevocationRepository {
	return &MemoryRevocationRepository{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke records tokenID until the given expiry; expired entries are pruned lazily.
func (r *MemoryRevocationRepository) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	if until.After(now) {
		r.revoked[tokenID] = until
	}
	return nil
}

// IsRevoked reports whether tokenID is still revoked.
func (r *MemoryRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.revoked[tokenID]
	return ok && exp.After(r.now()), nil
}
