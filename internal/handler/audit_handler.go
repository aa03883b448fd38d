package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, actorID string, limit int) ([]models.AuditLog, error)
}

// AuditHandler exposes the audit trail to admins.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 100)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}
	logs, err := h.service.List(c.Request.Context(), actorID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
