package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/campus-events-api/internal/models"
)

const defaultAuditCapacity = 1000

// MemoryAuditRepository keeps the most recent audit entries in a bounded buffer.
type MemoryAuditRepository struct {
	mu       sync.Mutex
	logs     []models.AuditLog
	capacity int
}

// NewMemoryAuditRepository constructs the repository. capacity <= 0 uses a default.
func NewMemoryAuditRepository(capacity int) *MemoryAuditRepository {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &MemoryAuditRepository{capacity: capacity}
}

// CreateAuditLog appends an entry, evicting the oldest beyond capacity.
func (r *MemoryAuditRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	if over := len(r.logs) - r.capacity; over > 0 {
		r.logs = append([]models.AuditLog(nil), r.logs[over:]...)
	}
	return nil
}

// ListAuditLogs returns up to limit entries, newest first.
func (r *MemoryAuditRepository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.logs) {
		limit = len(r.logs)
	}
	out := make([]models.AuditLog, 0, limit)
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}
