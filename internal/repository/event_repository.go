package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-events-api/internal/models"
)

const eventColumns = `id, title, description, to_char(event_date, 'YYYY-MM-DD') AS event_date, to_char(event_time, 'HH24:MI') AS event_time, venue, category, created_by, status, created_at, updated_at`

// EventRepository persists events and their participants in PostgreSQL.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

type participantRow struct {
	EventID string `db:"event_id"`
	UserID  string `db:"user_id"`
}

// List returns events matching filters with their participants.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(statuses))
	}
	if filter.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, string(*filter.Category))
	}
	if filter.StartDate != "" {
		where = append(where, fmt.Sprintf("event_date >= $%d", len(args)+1))
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		where = append(where, fmt.Sprintf("event_date <= $%d", len(args)+1))
		args = append(args, filter.EndDate)
	}
	if filter.CreatedBy != "" {
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)+1))
		args = append(args, filter.CreatedBy)
	}
	if filter.Participant != "" {
		where = append(where, fmt.Sprintf("id IN (SELECT event_id FROM event_participants WHERE user_id = $%d)", len(args)+1))
		args = append(args, filter.Participant)
	}
	if filter.VisibleTo != "" {
		where = append(where, fmt.Sprintf("(status = 'approved' OR created_by = $%d)", len(args)+1))
		args = append(args, filter.VisibleTo)
	}
	whereClause := strings.Join(where, " AND ")

	limit := ""
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		limit = fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	query := fmt.Sprintf("SELECT %s FROM events WHERE %s ORDER BY event_date ASC, event_time ASC, id ASC%s", eventColumns, whereClause, limit)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM events WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	if err := r.attachParticipants(ctx, events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID fetches an event with its participants.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	participants, err := r.participants(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	event.Participants = participants
	return &event, nil
}

// Create inserts the event and any initial participants in one transaction.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Participants == nil {
		event.Participants = []string{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create event: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO events (id, title, description, event_date, event_time, venue, category, created_by, status, created_at, updated_at)
VALUES (:id, :title, :description, :event_date, :event_time, :venue, :category, :created_by, :status, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	for _, userID := range event.Participants {
		if err := insertParticipant(ctx, tx, event.ID, userID, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create event: %w", err)
	}
	return nil
}

// Mutate locks the event row, applies fn to the latest committed state and writes the result.
func (r *EventRepository) Mutate(ctx context.Context, id string, fn func(*models.Event) error) (*models.Event, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mutate event: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := r.lockEvent(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedBy = current.CreatedBy
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now().UTC()

	const query = `UPDATE events SET title = :title, description = :description, event_date = :event_date, event_time = :event_time,
venue = :venue, category = :category, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, next); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	added, removed := diffParticipants(current.Participants, next.Participants)
	for _, userID := range added {
		if err := insertParticipant(ctx, tx, id, userID, next.UpdatedAt); err != nil {
			return nil, err
		}
	}
	if len(removed) > 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM event_participants WHERE event_id = $1 AND user_id = ANY($2)", id, pq.Array(removed)); err != nil {
			return nil, fmt.Errorf("remove participants: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mutate event: %w", err)
	}
	return next, nil
}

// Delete removes the event once guard approves the locked row. Participants cascade.
func (r *EventRepository) Delete(ctx context.Context, id string, guard func(*models.Event) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete event: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	current, err := r.lockEvent(ctx, tx, id)
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(current); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete event: %w", err)
	}
	return nil
}

func (r *EventRepository) lockEvent(ctx context.Context, tx *sqlx.Tx, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1 FOR UPDATE", eventColumns)
	var event models.Event
	if err := tx.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	participants, err := r.participants(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	event.Participants = participants
	return &event, nil
}

func (r *EventRepository) participants(ctx context.Context, q sqlx.QueryerContext, eventID string) ([]string, error) {
	const query = `SELECT user_id FROM event_participants WHERE event_id = $1 ORDER BY registered_at ASC, user_id ASC`
	participants := []string{}
	if err := sqlx.SelectContext(ctx, q, &participants, query, eventID); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (r *EventRepository) attachParticipants(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	index := make(map[string]int, len(events))
	for i := range events {
		ids[i] = events[i].ID
		index[events[i].ID] = i
		events[i].Participants = []string{}
	}
	const query = `SELECT event_id, user_id FROM event_participants WHERE event_id = ANY($1) ORDER BY registered_at ASC, user_id ASC`
	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list participants: %w", err)
	}
	for _, row := range rows {
		if i, ok := index[row.EventID]; ok {
			events[i].Participants = append(events[i].Participants, row.UserID)
		}
	}
	return nil
}

func insertParticipant(ctx context.Context, tx *sqlx.Tx, eventID, userID string, at time.Time) error {
	const query = `INSERT INTO event_participants (event_id, user_id, registered_at) VALUES ($1, $2, $3) ON CONFLICT (event_id, user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, query, eventID, userID, at); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func diffParticipants(before, after []string) (added, removed []string) {
	seen := make(map[string]struct{}, len(before))
	for _, id := range before {
		seen[id] = struct{}{}
	}
	kept := make(map[string]struct{}, len(after))
	for _, id := range after {
		kept[id] = struct{}{}
		if _, ok := seen[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
