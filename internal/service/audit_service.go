package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/policy"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/jobs"
)

const auditJobType = "audit_log"

type requestOriginKey struct{}

type requestOrigin struct {
	ip        string
	userAgent string
}

// WithRequestOrigin stores the caller address on ctx so audit entries can carry it.
func WithRequestOrigin(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestOriginKey{}, requestOrigin{ip: ip, userAgent: userAgent})
}

type auditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type auditQueue interface {
	Enqueue(job jobs.Job) error
}

// AuditService writes the audit trail off the request path.
type AuditService struct {
	repo    auditRepository
	users   userReader
	queue   auditQueue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAuditService constructs the service. With a nil queue entries are written inline.
func NewAuditService(repo auditRepository, users userReader, queue auditQueue, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, users: users, queue: queue, metrics: metrics, logger: logger}
}

// AttachQueue sets the queue once it has been built around Handle.
func (s *AuditService) AttachQueue(queue auditQueue) {
	s.queue = queue
}

// Record queues an entry. Failures are logged and never surface to the caller.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if s == nil || s.repo == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if origin, ok := ctx.Value(requestOriginKey{}).(requestOrigin); ok {
		if entry.IPAddress == "" {
			entry.IPAddress = origin.ip
		}
		if entry.UserAgent == "" {
			entry.UserAgent = origin.userAgent
		}
	}
	if s.queue == nil {
		if err := s.repo.CreateAuditLog(ctx, &entry); err != nil {
			s.logger.Warn("failed to record audit log", zap.String("action", entry.Action), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry}); err != nil {
		s.metrics.CountAuditDropped()
		s.logger.Warn("failed to enqueue audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

// Handle is the queue handler persisting one audit entry.
func (s *AuditService) Handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.repo.CreateAuditLog(ctx, &entry)
}

// List returns the latest audit entries to moderators.
func (s *AuditService) List(ctx context.Context, actorID string, limit int) ([]models.AuditLog, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModerateEvent(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can read the audit trail")
	}
	logs, err := s.repo.ListAuditLogs(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}

func marshalAuditValues(value interface{}) []byte {
	if value == nil {
		return nil
	}
	if event, ok := value.(*models.Event); ok && event == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return raw
}
