package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// MemoryEventRepository is the in-process event store. Every mutation runs inside one
// critical section so concurrent registrations always see the latest committed set.
type MemoryEventRepository struct {
	mu      sync.RWMutex
	events  map[string]*models.Event
	latency time.Duration
	now     func() time.Time
}

// NewMemoryEventRepository constructs an empty store. latency simulates a network round trip.
func NewMemoryEventRepository(latency time.Duration) *MemoryEventRepository {
	return &MemoryEventRepository{
		events:  make(map[string]*models.Event),
		latency: latency,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Seed loads events as-is, keeping their ids and participants.
func (r *MemoryEventRepository) Seed(events []models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range events {
		event := events[i].Clone()
		if event.CreatedAt.IsZero() {
			event.CreatedAt = r.now()
		}
		if event.UpdatedAt.IsZero() {
			event.UpdatedAt = event.CreatedAt
		}
		r.events[event.ID] = event
	}
}

// List returns events matching the filter ordered by date and time.
func (r *MemoryEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	if err := r.wait(ctx); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	matched := make([]models.Event, 0, len(r.events))
	for _, event := range r.events {
		if matchesFilter(event, filter) {
			matched = append(matched, *event.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return eventLess(&matched[i], &matched[j])
	})

	total := len(matched)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start > total {
			start = total
		}
		end := start + filter.PageSize
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

// GetByID returns a copy of the event or sql.ErrNoRows.
func (r *MemoryEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return event.Clone(), nil
}

// Create assigns a fresh id and persists the event.
func (r *MemoryEventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.NewString()
	for _, exists := r.events[event.ID]; exists; _, exists = r.events[event.ID] {
		event.ID = uuid.NewString()
	}
	now := r.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []string{}
	}
	r.events[event.ID] = event.Clone()
	return nil
}

// Mutate applies fn to a copy of the latest event and commits it only when fn succeeds.
func (r *MemoryEventRepository) Mutate(ctx context.Context, id string, fn func(*models.Event) error) (*models.Event, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.now()
	r.events[id] = next
	return next.Clone(), nil
}

// Delete removes the event after guard approves the latest committed copy.
func (r *MemoryEventRepository) Delete(ctx context.Context, id string, guard func(*models.Event) error) error {
	if err := r.wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	if guard != nil {
		if err := guard(current.Clone()); err != nil {
			return err
		}
	}
	delete(r.events, id)
	return nil
}

func (r *MemoryEventRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func matchesFilter(event *models.Event, filter models.EventFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if event.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Category != nil && event.Category != *filter.Category {
		return false
	}
	if filter.StartDate != "" && event.Date < filter.StartDate {
		return false
	}
	if filter.EndDate != "" && event.Date > filter.EndDate {
		return false
	}
	if filter.CreatedBy != "" && event.CreatedBy != filter.CreatedBy {
		return false
	}
	if filter.Participant != "" && !event.HasParticipant(filter.Participant) {
		return false
	}
	if filter.VisibleTo != "" && event.Status != models.EventStatusApproved && event.CreatedBy != filter.VisibleTo {
		return false
	}
	return true
}

func eventLess(a, b *models.Event) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	return a.ID < b.ID
}
