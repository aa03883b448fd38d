package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-events-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role"}).
		AddRow("1", "Alice Johnson", "admin@example.com", string(models.RoleAdmin))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, role FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("Admin@Example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "Admin@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, role FROM users WHERE id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "role"}).
		AddRow("1", "Alice Johnson", "admin@example.com", string(models.RoleAdmin)).
		AddRow("2", "Bob Williams", "organizer@example.com", string(models.RoleOrganizer))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, role FROM users ORDER BY name ASC, id ASC")).
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Bob Williams", users[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	userID, resourceID := "2", "e1"
	entry := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionEventCreate,
		Resource:   models.AuditResourceEvent,
		ResourceID: &resourceID,
		NewValues:  []byte(`{"title":"Summit"}`),
	}
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "2", models.AuditActionEventCreate, models.AuditResourceEvent, "e1",
			nil, `{"title":"Summit"}`, "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAuditLogsClampsLimit(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "old_values", "new_values", "ip_address", "user_agent", "created_at"}).
		AddRow("a1", "1", models.AuditActionLogin, models.AuditResourceAuth, "1", nil, nil, "127.0.0.1", "curl", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_logs ORDER BY created_at DESC LIMIT 100")).WillReturnRows(rows)

	logs, err := repo.ListAuditLogs(context.Background(), 10000)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "127.0.0.1", logs[0].IPAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}
