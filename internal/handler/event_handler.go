package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/middleware"
	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type eventService interface {
	Create(ctx context.Context, actorID string, req dto.CreateEventRequest) (*models.Event, error)
	Update(ctx context.Context, actorID, eventID string, req dto.UpdateEventRequest) (*models.Event, error)
	SetStatus(ctx context.Context, actorID, eventID string, req dto.UpdateEventStatusRequest) (*models.Event, error)
	Delete(ctx context.Context, actorID, eventID string) error
	Get(ctx context.Context, actorID, eventID string) (*models.Event, error)
	List(ctx context.Context, actorID string, query dto.EventListQuery) ([]models.Event, *models.Pagination, error)
	ListUpcoming(ctx context.Context) ([]models.Event, bool, error)
	Calendar(ctx context.Context, month string) (*dto.CalendarMonth, bool, error)
	PendingQueue(ctx context.Context, actorID string) ([]models.Event, error)
	Register(ctx context.Context, actorID, eventID string) (*models.Event, error)
	Unregister(ctx context.Context, actorID, eventID string) (*models.Event, error)
	ExportParticipants(ctx context.Context, actorID, eventID string, format dto.ExportFormat) (*dto.RosterExport, error)
}

// EventHandler exposes event browsing, moderation and registration.
type EventHandler struct {
	service eventService
}

// NewEventHandler constructs the handler.
func NewEventHandler(svc eventService) *EventHandler {
	return &EventHandler{service: svc}
}

// Upcoming godoc
// @Summary Upcoming events
// @Description Approved events dated today or later
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, hit, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, events, nil, middleware.ExtractMeta(c))
}

// Calendar godoc
// @Summary Calendar view
// @Description Approved events of one month grouped by day
// @Tags Events
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/calendar [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	month, hit, err := h.service.Calendar(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, month, nil, middleware.ExtractMeta(c))
}

// List godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Comma separated statuses"
// @Param category query string false "Category"
// @Param start_date query string false "Earliest date (YYYY-MM-DD)"
// @Param end_date query string false "Latest date (YYYY-MM-DD)"
// @Param mine query bool false "Only events I created"
// @Param registered query bool false "Only events I registered for"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	var query dto.EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	events, pagination, err := h.service.List(c.Request.Context(), actorID(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Pending godoc
// @Summary Approval queue
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/pending [get]
func (h *EventHandler) Pending(c *gin.Context) {
	events, err := h.service.PendingQueue(c.Request.Context(), actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Create godoc
// @Summary Create event
// @Description Submits an event for approval
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateEventRequest true "Event"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := bindStrictJSON(c, &req, "invalid event payload"); err != nil {
		response.Error(c, err)
		return
	}
	event, err := h.service.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Get godoc
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Update godoc
// @Summary Update event
// @Description Partial edit. Only the creator or an admin may edit; status needs an admin.
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id} [patch]
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := bindStrictJSON(c, &req, "invalid event payload"); err != nil {
		response.Error(c, err)
		return
	}
	event, err := h.service.Update(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// SetStatus godoc
// @Summary Approve or reject
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateEventStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /events/{id}/status [put]
func (h *EventHandler) SetStatus(c *gin.Context) {
	var req dto.UpdateEventStatusRequest
	if err := bindStrictJSON(c, &req, "invalid status payload"); err != nil {
		response.Error(c, err)
		return
	}
	event, err := h.service.SetStatus(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Delete godoc
// @Summary Delete event
// @Tags Events
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Register godoc
// @Summary Register for event
// @Description Idempotent, registering twice succeeds without duplicates
// @Tags Registration
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/registration [post]
func (h *EventHandler) Register(c *gin.Context) {
	event, err := h.service.Register(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Unregister godoc
// @Summary Cancel registration
// @Description Idempotent, cancelling without a registration succeeds
// @Tags Registration
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/registration [delete]
func (h *EventHandler) Unregister(c *gin.Context) {
	event, err := h.service.Unregister(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// ExportParticipants godoc
// @Summary Export participant roster
// @Tags Registration
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /events/{id}/participants/export [get]
func (h *EventHandler) ExportParticipants(c *gin.Context) {
	format := dto.ExportFormat(c.DefaultQuery("format", string(dto.ExportFormatCSV)))
	result, err := h.service.ExportParticipants(c.Request.Context(), actorID(c), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Content)
}
