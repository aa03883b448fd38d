package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/jobs"
)

type failingQueue struct{}

func (failingQueue) Enqueue(job jobs.Job) error { return jobs.ErrQueueFull }

func TestAuditServiceRecordsInlineWithoutQueue(t *testing.T) {
	repo := repository.NewMemoryAuditRepository(10)
	users := repository.NewMemoryUserRepository(repository.SeedUsers())
	svc := NewAuditService(repo, users, nil, nil, zap.NewNop())

	ctx := WithRequestOrigin(context.Background(), "192.0.2.1", "go-test")
	svc.Record(ctx, models.AuditLog{Action: models.AuditActionEventCreate, Resource: models.AuditResourceEvent})

	logs, err := svc.List(context.Background(), "1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.NotEmpty(t, logs[0].ID)
	assert.Equal(t, "192.0.2.1", logs[0].IPAddress)
	assert.Equal(t, "go-test", logs[0].UserAgent)
}

func TestAuditServiceWritesThroughQueue(t *testing.T) {
	repo := repository.NewMemoryAuditRepository(10)
	users := repository.NewMemoryUserRepository(repository.SeedUsers())
	svc := NewAuditService(repo, users, nil, nil, zap.NewNop())
	queue := jobs.NewQueue("audit-test", svc.Handle, jobs.QueueConfig{Workers: 2, RetryDelay: time.Millisecond})
	queue.Start(context.Background())
	svc.AttachQueue(queue)

	for i := 0; i < 5; i++ {
		svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionRegister, Resource: models.AuditResourceEvent})
	}
	queue.Stop()

	logs, err := repo.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 5)
}

func TestAuditServiceDropsWhenQueueRejects(t *testing.T) {
	repo := repository.NewMemoryAuditRepository(10)
	metrics := NewMetricsService()
	svc := NewAuditService(repo, nil, failingQueue{}, metrics, zap.NewNop())

	svc.Record(context.Background(), models.AuditLog{Action: models.AuditActionLogin})

	logs, err := repo.ListAuditLogs(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditServiceHandleReturnsRepositoryErrors(t *testing.T) {
	svc := NewAuditService(&brokenAuditRepo{}, nil, nil, nil, zap.NewNop())

	err := svc.Handle(context.Background(), jobs.Job{Payload: models.AuditLog{Action: models.AuditActionLogin}})
	require.Error(t, err)

	require.NoError(t, svc.Handle(context.Background(), jobs.Job{Payload: "unexpected"}))
}

func TestAuditServiceListRequiresAdmin(t *testing.T) {
	repo := repository.NewMemoryAuditRepository(10)
	users := repository.NewMemoryUserRepository(repository.SeedUsers())
	svc := NewAuditService(repo, users, nil, nil, zap.NewNop())

	_, err := svc.List(context.Background(), "2", 10)
	assertErrorCode(t, err, appErrors.ErrForbidden)

	_, err = svc.List(context.Background(), "", 10)
	assertErrorCode(t, err, appErrors.ErrUnauthorized)
}

type brokenAuditRepo struct{}

func (brokenAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return errors.New("disk full")
}

func (brokenAuditRepo) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return nil, errors.New("disk full")
}
