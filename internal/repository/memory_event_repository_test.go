package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
)

func seededMemoryRepo(t *testing.T) *MemoryEventRepository {
	t.Helper()
	repo := NewMemoryEventRepository(0)
	repo.Seed(SeedEvents(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
	return repo
}

func TestMemoryEventRepositoryListOrdersAndPages(t *testing.T) {
	repo := seededMemoryRepo(t)

	events, total, err := repo.List(context.Background(), models.EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"e5", "e1", "e4", "e2", "e3"}, ids)

	page, total, err := repo.List(context.Background(), models.EventFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 1)
	assert.Equal(t, "e3", page[0].ID)

	beyond, _, err := repo.List(context.Background(), models.EventFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestMemoryEventRepositoryFilters(t *testing.T) {
	repo := seededMemoryRepo(t)
	academic := models.EventCategoryAcademic

	tests := []struct {
		name   string
		filter models.EventFilter
		want   int
	}{
		{"status", models.EventFilter{Statuses: []models.EventStatus{models.EventStatusPending}}, 1},
		{"category", models.EventFilter{Category: &academic}, 2},
		{"date range", models.EventFilter{StartDate: "2026-03-15", EndDate: "2026-03-22"}, 3},
		{"created by", models.EventFilter{CreatedBy: "1"}, 1},
		{"participant", models.EventFilter{Participant: "4"}, 2},
		{"visible to student", models.EventFilter{VisibleTo: "3"}, 4},
		{"visible to creator", models.EventFilter{VisibleTo: "2"}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, total, err := repo.List(context.Background(), tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
		})
	}
}

func TestMemoryEventRepositoryReturnsCopies(t *testing.T) {
	repo := seededMemoryRepo(t)

	event, err := repo.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	event.Participants[0] = "tampered"
	event.Title = "tampered"

	again, err := repo.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "3", again.Participants[0])
	assert.Equal(t, "Annual Tech Summit", again.Title)
}

func TestMemoryEventRepositoryMutateIsAllOrNothing(t *testing.T) {
	repo := seededMemoryRepo(t)

	_, err := repo.Mutate(context.Background(), "e2", func(event *models.Event) error {
		event.Title = "changed"
		return errors.New("abort")
	})
	require.Error(t, err)

	event, err := repo.GetByID(context.Background(), "e2")
	require.NoError(t, err)
	assert.Equal(t, "React Hooks Workshop", event.Title)

	_, err = repo.Mutate(context.Background(), "missing", func(event *models.Event) error { return nil })
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryEventRepositoryConcurrentMutations(t *testing.T) {
	repo := seededMemoryRepo(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Mutate(context.Background(), "e2", func(event *models.Event) error {
				event.AddParticipant(fmt.Sprintf("u%d", i))
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	event, err := repo.GetByID(context.Background(), "e2")
	require.NoError(t, err)
	assert.Len(t, event.Participants, 50)
}

func TestMemoryEventRepositoryCreateAndDelete(t *testing.T) {
	repo := NewMemoryEventRepository(0)

	event := &models.Event{Title: "New", Date: "2026-04-01", Time: "10:00", CreatedBy: "2", Status: models.EventStatusPending}
	require.NoError(t, repo.Create(context.Background(), event))
	require.NotEmpty(t, event.ID)
	assert.NotNil(t, event.Participants)

	guardErr := errors.New("not yours")
	err := repo.Delete(context.Background(), event.ID, func(*models.Event) error { return guardErr })
	assert.ErrorIs(t, err, guardErr)

	require.NoError(t, repo.Delete(context.Background(), event.ID, nil))
	_, err = repo.GetByID(context.Background(), event.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemoryEventRepositoryHonoursContext(t *testing.T) {
	repo := NewMemoryEventRepository(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := repo.List(ctx, models.EventFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryUserRepositoryLookups(t *testing.T) {
	repo := NewMemoryUserRepository(SeedUsers())

	user, err := repo.FindByEmail(context.Background(), "ORGANIZER@example.com")
	require.NoError(t, err)
	assert.Equal(t, "2", user.ID)

	_, err = repo.FindByID(context.Background(), "99")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.True(t, repo.SetRole("3", models.RoleOrganizer))
	user, err = repo.FindByID(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, user.Role)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", users[0].Name)
}

func TestMemoryAuditRepositoryEvictsOldest(t *testing.T) {
	repo := NewMemoryAuditRepository(2)
	for _, action := range []string{"A", "B", "C"} {
		require.NoError(t, repo.CreateAuditLog(context.Background(), &models.AuditLog{Action: action}))
	}

	logs, err := repo.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "C", logs[0].Action)
	assert.Equal(t, "B", logs[1].Action)
}
