package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/policy"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
	"github.com/noah-isme/campus-events-api/pkg/export"
)

const (
	upcomingCacheKeyPrefix = "upcoming:"
	calendarCacheKeyPrefix = "calendar:"
	defaultEventPageSize   = 50
	maxEventPageSize       = 200
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Mutate(ctx context.Context, id string, fn func(*models.Event) error) (*models.Event, error)
	Delete(ctx context.Context, id string, guard func(*models.Event) error) error
}

type eventUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table, heading export.Heading) ([]byte, error)
}

// EventService is the single entry point for reading and mutating events.
type EventService struct {
	repo      eventRepository
	users     eventUserRepository
	cache     *CacheService
	audit     auditRecorder
	metrics   *MetricsService
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time

	// generation is part of every listing cache key and moves on each committed mutation,
	// so a listing read before a mutation is never served after it.
	generation atomic.Uint64
}

// EventServiceOption customises optional collaborators.
type EventServiceOption func(*EventService)

// WithEventCache enables the public listing cache.
func WithEventCache(cache *CacheService) EventServiceOption {
	return func(s *EventService) { s.cache = cache }
}

// WithEventAudit records every successful mutation.
func WithEventAudit(audit auditRecorder) EventServiceOption {
	return func(s *EventService) { s.audit = audit }
}

// WithEventMetrics times store operations.
func WithEventMetrics(metrics *MetricsService) EventServiceOption {
	return func(s *EventService) { s.metrics = metrics }
}

// WithRosterExporters overrides the roster renderers.
func WithRosterExporters(csv csvRenderer, pdf pdfRenderer) EventServiceOption {
	return func(s *EventService) {
		s.csv = csv
		s.pdf = pdf
	}
}

// WithClock overrides the wall clock used for "today".
func WithClock(now func() time.Time) EventServiceOption {
	return func(s *EventService) { s.now = now }
}

// NewEventService constructs the event service.
func NewEventService(repo eventRepository, users eventUserRepository, validate *validator.Validate, logger *zap.Logger, opts ...EventServiceOption) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EventService{
		repo:      repo,
		users:     users,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if err := registerEventValidations(svc.validator); err != nil {
		logger.Error("failed to register event validations", zap.Error(err))
	}
	return svc
}

// registerEventValidations names fields after their json tags and adds the event_category rule.
func registerEventValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v.RegisterValidation("event_category", func(fl validator.FieldLevel) bool {
		return models.EventCategory(fl.Field().String()).Valid()
	})
}

// Create submits a new event on behalf of actorID. New events start pending with no participants.
func (s *EventService) Create(ctx context.Context, actorID string, req dto.CreateEventRequest) (*models.Event, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateEvent(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only organizers and admins can create events")
	}

	req = normalizeDraft(req)
	if err := s.validateDraft(req); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Time:         req.Time,
		Venue:        req.Venue,
		Category:     req.Category,
		CreatedBy:    actor.ID,
		Status:       models.EventStatusPending,
		Participants: []string{},
	}
	start := time.Now()
	err = s.repo.Create(ctx, event)
	s.metrics.ObserveStoreOperation("create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}

	s.afterMutation(ctx, actor.ID, models.AuditActionEventCreate, event.ID, nil, event)
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("created_by", actor.ID))
	return event, nil
}

// Update applies a partial edit. Setting status additionally requires moderation rights.
func (s *EventService) Update(ctx context.Context, actorID, eventID string, req dto.UpdateEventRequest) (*models.Event, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	var before *models.Event
	start := time.Now()
	updated, err := s.repo.Mutate(ctx, eventID, func(event *models.Event) error {
		if !policy.CanManageEvent(actor, event) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the creator or an admin can edit this event")
		}
		if req.Status != nil {
			if !policy.CanModerateEvent(actor) {
				return appErrors.Clone(appErrors.ErrForbidden, "only admins can change event status")
			}
			if err := policy.Transition(event.Status, *req.Status); err != nil {
				return err
			}
		}
		draft := normalizeDraft(mergeDraft(event, req))
		if err := s.validateDraft(draft); err != nil {
			return err
		}
		before = event.Clone()
		event.Title = draft.Title
		event.Description = draft.Description
		event.Date = draft.Date
		event.Time = draft.Time
		event.Venue = draft.Venue
		event.Category = draft.Category
		if req.Status != nil {
			event.Status = *req.Status
		}
		return nil
	})
	s.metrics.ObserveStoreOperation("update", time.Since(start))
	if err != nil {
		return nil, s.mapStoreError(err, "failed to update event")
	}

	action := models.AuditActionEventUpdate
	if before != nil && before.Status != updated.Status {
		action = models.AuditActionEventStatus
	}
	s.afterMutation(ctx, actor.ID, action, updated.ID, before, updated)
	s.logger.Info("event updated", zap.String("event_id", updated.ID), zap.String("actor_id", actor.ID))
	return updated, nil
}

// SetStatus approves or rejects a pending event.
func (s *EventService) SetStatus(ctx context.Context, actorID, eventID string, req dto.UpdateEventStatusRequest) (*models.Event, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModerateEvent(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can change event status")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, s.validationError(err)
	}

	var previous models.EventStatus
	start := time.Now()
	updated, err := s.repo.Mutate(ctx, eventID, func(event *models.Event) error {
		if err := policy.Transition(event.Status, req.Status); err != nil {
			return err
		}
		previous = event.Status
		event.Status = req.Status
		return nil
	})
	s.metrics.ObserveStoreOperation("set_status", time.Since(start))
	if err != nil {
		return nil, s.mapStoreError(err, "failed to change event status")
	}

	s.afterMutation(ctx, actor.ID, models.AuditActionEventStatus, updated.ID,
		map[string]interface{}{"status": previous}, map[string]interface{}{"status": updated.Status})
	s.logger.Info("event status changed",
		zap.String("event_id", updated.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.Status)),
		zap.String("actor_id", actor.ID),
	)
	return updated, nil
}

// Delete removes an event together with its registrations.
func (s *EventService) Delete(ctx context.Context, actorID, eventID string) error {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return err
	}

	var removed *models.Event
	start := time.Now()
	err = s.repo.Delete(ctx, eventID, func(event *models.Event) error {
		if !policy.CanManageEvent(actor, event) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the creator or an admin can delete this event")
		}
		removed = event.Clone()
		return nil
	})
	s.metrics.ObserveStoreOperation("delete", time.Since(start))
	if err != nil {
		return s.mapStoreError(err, "failed to delete event")
	}

	s.afterMutation(ctx, actor.ID, models.AuditActionEventDelete, eventID, removed, nil)
	s.logger.Info("event deleted", zap.String("event_id", eventID), zap.String("actor_id", actor.ID))
	return nil
}

// Get returns an event the actor may see. Hidden events are reported as missing.
func (s *EventService) Get(ctx context.Context, actorID, eventID string) (*models.Event, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	event, err := s.repo.GetByID(ctx, eventID)
	s.metrics.ObserveStoreOperation("get", time.Since(start))
	if err != nil {
		return nil, s.mapStoreError(err, "failed to get event")
	}
	if !policy.CanViewEvent(actor, event) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	return event, nil
}

// List returns the events visible to the actor that match the query.
func (s *EventService) List(ctx context.Context, actorID string, query dto.EventListQuery) ([]models.Event, *models.Pagination, error) {
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return nil, nil, err
	}

	filter := models.EventFilter{
		StartDate: strings.TrimSpace(query.StartDate),
		EndDate:   strings.TrimSpace(query.EndDate),
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultEventPageSize
	}
	if filter.PageSize > maxEventPageSize {
		filter.PageSize = maxEventPageSize
	}
	for _, field := range []struct{ name, value string }{{"start_date", filter.StartDate}, {"end_date", filter.EndDate}} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, field.value); err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, field.name+" must use YYYY-MM-DD")
		}
	}
	if raw := strings.TrimSpace(query.Status); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.EventStatus(strings.ToLower(strings.TrimSpace(part)))
			if !status.Valid() {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown status "+part)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := strings.TrimSpace(query.Category); raw != "" {
		category := models.EventCategory(strings.ToLower(raw))
		if !category.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown category "+raw)
		}
		filter.Category = &category
	}
	if query.Mine || query.Registered {
		if actor == nil {
			return nil, nil, appErrors.ErrUnauthorized
		}
		if query.Mine {
			filter.CreatedBy = actor.ID
		}
		if query.Registered {
			filter.Participant = actor.ID
		}
	}
	switch {
	case policy.CanModerateEvent(actor):
	case actor != nil:
		filter.VisibleTo = actor.ID
	default:
		filter.Statuses = restrictToApproved(filter.Statuses)
		if filter.Statuses == nil {
			return []models.Event{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
		}
	}

	start := time.Now()
	events, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveStoreOperation("list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListUpcoming returns approved events from today onwards. The bool reports a cache hit.
func (s *EventService) ListUpcoming(ctx context.Context) ([]models.Event, bool, error) {
	today := s.now().Format(models.DateLayout)
	key := s.listingKey(upcomingCacheKeyPrefix, today)

	var cached []models.Event
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	start := time.Now()
	events, _, err := s.repo.List(ctx, models.EventFilter{
		Statuses:  []models.EventStatus{models.EventStatusApproved},
		StartDate: today,
	})
	s.metrics.ObserveStoreOperation("list_upcoming", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming events")
	}
	if events == nil {
		events = []models.Event{}
	}
	s.cache.Set(ctx, key, events, 0)
	return events, false, nil
}

// Calendar groups the approved events of month (YYYY-MM) by day. The bool reports a cache hit.
func (s *EventService) Calendar(ctx context.Context, month string) (*dto.CalendarMonth, bool, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		month = s.now().Format(models.MonthLayout)
	}
	first, err := time.Parse(models.MonthLayout, month)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must use YYYY-MM")
	}
	key := s.listingKey(calendarCacheKeyPrefix, month)

	var cached dto.CalendarMonth
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	events, _, err := s.repo.List(ctx, models.EventFilter{
		Statuses:  []models.EventStatus{models.EventStatusApproved},
		StartDate: first.Format(models.DateLayout),
		EndDate:   first.AddDate(0, 1, -1).Format(models.DateLayout),
	})
	s.metrics.ObserveStoreOperation("calendar", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}

	result := &dto.CalendarMonth{Month: month, Days: groupByDay(events)}
	s.cache.Set(ctx, key, result, 0)
	return result, false, nil
}

// PendingQueue lists events awaiting moderation.
func (s *EventService) PendingQueue(ctx context.Context, actorID string) ([]models.Event, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModerateEvent(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can review pending events")
	}
	start := time.Now()
	events, _, err := s.repo.List(ctx, models.EventFilter{Statuses: []models.EventStatus{models.EventStatusPending}})
	s.metrics.ObserveStoreOperation("list_pending", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending events")
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

// Register adds the actor to the event. Registering twice is a no-op.
func (s *EventService) Register(ctx context.Context, actorID, eventID string) (*models.Event, error) {
	return s.toggleRegistration(ctx, actorID, eventID, true)
}

// Unregister removes the actor from the event. Leaving twice is a no-op.
func (s *EventService) Unregister(ctx context.Context, actorID, eventID string) (*models.Event, error) {
	return s.toggleRegistration(ctx, actorID, eventID, false)
}

func (s *EventService) toggleRegistration(ctx context.Context, actorID, eventID string, join bool) (*models.Event, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}

	changed := false
	operation := "unregister"
	if join {
		operation = "register"
	}
	start := time.Now()
	updated, err := s.repo.Mutate(ctx, eventID, func(event *models.Event) error {
		if !policy.CanViewEvent(actor, event) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		if !policy.CanToggleRegistration(actor, event) {
			return appErrors.Clone(appErrors.ErrForbidden, "registration is not allowed")
		}
		if join {
			changed = event.AddParticipant(actor.ID)
		} else {
			changed = event.RemoveParticipant(actor.ID)
		}
		return nil
	})
	s.metrics.ObserveStoreOperation(operation, time.Since(start))
	if err != nil {
		return nil, s.mapStoreError(err, "failed to "+operation)
	}

	if changed {
		action := models.AuditActionUnregister
		if join {
			action = models.AuditActionRegister
		}
		s.afterMutation(ctx, actor.ID, action, updated.ID, nil, map[string]interface{}{"user_id": actor.ID})
	}
	s.logger.Debug("registration toggled",
		zap.String("event_id", updated.ID),
		zap.String("user_id", actor.ID),
		zap.Bool("join", join),
		zap.Bool("changed", changed),
	)
	return updated, nil
}

// ExportParticipants renders the roster of an event the actor manages.
func (s *EventService) ExportParticipants(ctx context.Context, actorID, eventID string, format dto.ExportFormat) (*dto.RosterExport, error) {
	actor, err := requireActor(ctx, s.users, actorID)
	if err != nil {
		return nil, err
	}
	format = dto.ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	if format != dto.ExportFormatCSV && format != dto.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, s.mapStoreError(err, "failed to get event")
	}
	if !policy.CanViewEvent(actor, event) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	if !policy.CanManageEvent(actor, event) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the creator or an admin can export participants")
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	table := rosterTable(event, users)

	var content []byte
	result := &dto.RosterExport{Filename: fmt.Sprintf("participants-%s.%s", event.ID, format)}
	switch format {
	case dto.ExportFormatPDF:
		result.ContentType = "application/pdf"
		content, err = s.pdf.Render(table, export.Heading{
			Title:    event.Title,
			Subtitle: fmt.Sprintf("%s %s, %s", event.Date, event.Time, event.Venue),
		})
	default:
		result.ContentType = "text/csv"
		content, err = s.csv.Render(table)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	result.Content = content
	return result, nil
}

func (s *EventService) validateDraft(req dto.CreateEventRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return s.validationError(err)
	}
	return nil
}

func (s *EventService) validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, describeFieldError(fe))
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "event_category":
		return fe.Field() + " must be one of workshop, cultural, academic, sports"
	default:
		return fe.Field() + " is invalid"
	}
}

func (s *EventService) listingKey(prefix, suffix string) string {
	return fmt.Sprintf("%s%d:%s", prefix, s.generation.Load(), suffix)
}

func (s *EventService) mapStoreError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func (s *EventService) afterMutation(ctx context.Context, actorID, action, eventID string, before, after interface{}) {
	s.metrics.CountEventMutation(action)
	s.generation.Add(1)
	s.cache.Invalidate(ctx, "*")
	if s.audit == nil {
		return
	}
	uid := actorID
	rid := eventID
	s.audit.Record(ctx, models.AuditLog{
		UserID:     &uid,
		Action:     action,
		Resource:   models.AuditResourceEvent,
		ResourceID: &rid,
		OldValues:  marshalAuditValues(before),
		NewValues:  marshalAuditValues(after),
	})
}

func normalizeDraft(req dto.CreateEventRequest) dto.CreateEventRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Venue = strings.TrimSpace(req.Venue)
	req.Category = models.EventCategory(strings.ToLower(strings.TrimSpace(string(req.Category))))
	return req
}

func mergeDraft(event *models.Event, patch dto.UpdateEventRequest) dto.CreateEventRequest {
	draft := dto.CreateEventRequest{
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date,
		Time:        event.Time,
		Venue:       event.Venue,
		Category:    event.Category,
	}
	if patch.Title != nil {
		draft.Title = *patch.Title
	}
	if patch.Description != nil {
		draft.Description = *patch.Description
	}
	if patch.Date != nil {
		draft.Date = *patch.Date
	}
	if patch.Time != nil {
		draft.Time = *patch.Time
	}
	if patch.Venue != nil {
		draft.Venue = *patch.Venue
	}
	if patch.Category != nil {
		draft.Category = *patch.Category
	}
	return draft
}

// restrictToApproved narrows statuses to approved. It returns nil when approved was filtered out.
func restrictToApproved(statuses []models.EventStatus) []models.EventStatus {
	if len(statuses) == 0 {
		return []models.EventStatus{models.EventStatusApproved}
	}
	for _, status := range statuses {
		if status == models.EventStatusApproved {
			return []models.EventStatus{models.EventStatusApproved}
		}
	}
	return nil
}

func groupByDay(events []models.Event) []dto.CalendarDay {
	days := []dto.CalendarDay{}
	index := map[string]int{}
	for _, event := range events {
		i, ok := index[event.Date]
		if !ok {
			i = len(days)
			index[event.Date] = i
			days = append(days, dto.CalendarDay{Date: event.Date, Events: []models.Event{}})
		}
		days[i].Events = append(days[i].Events, event)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func rosterTable(event *models.Event, users []models.User) export.Table {
	byID := make(map[string]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	table := export.Table{
		Columns: []export.Column{
			{Key: "no", Title: "No", Weight: 0.5},
			{Key: "name", Title: "Name", Weight: 2},
			{Key: "email", Title: "Email", Weight: 2.5},
			{Key: "role", Title: "Role", Weight: 1},
		},
		Rows: make([]map[string]string, 0, len(event.Participants)),
	}
	for i, id := range event.Participants {
		row := map[string]string{"no": fmt.Sprintf("%d", i+1), "name": id}
		if user, ok := byID[id]; ok {
			row["name"] = user.Name
			row["email"] = user.Email
			row["role"] = string(user.Role)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
