package dto

import "github.com/noah-isme/campus-events-api/internal/models"

// CreateEventRequest is the payload for submitting an event.
type CreateEventRequest struct {
	Title       string               `json:"title" validate:"required,max=200"`
	Description string               `json:"description" validate:"required,max=5000"`
	Date        string               `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string               `json:"time" validate:"required,datetime=15:04"`
	Venue       string               `json:"venue" validate:"required,max=200"`
	Category    models.EventCategory `json:"category" validate:"required,event_category"`
}

// UpdateEventRequest is a partial edit. Nil fields keep their current value.
type UpdateEventRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Date        *string               `json:"date"`
	Time        *string               `json:"time"`
	Venue       *string               `json:"venue"`
	Category    *models.EventCategory `json:"category"`
	Status      *models.EventStatus   `json:"status"`
}

// Empty reports whether the patch carries no field at all.
func (r UpdateEventRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Date == nil && r.Time == nil &&
		r.Venue == nil && r.Category == nil && r.Status == nil
}

// UpdateEventStatusRequest moves an event through moderation.
type UpdateEventStatusRequest struct {
	Status models.EventStatus `json:"status" validate:"required"`
}

// EventListQuery captures the listing filters accepted over HTTP.
type EventListQuery struct {
	Status     string `form:"status"`
	Category   string `form:"category"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Mine       bool   `form:"mine"`
	Registered bool   `form:"registered"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// CalendarDay groups the approved events of one date.
type CalendarDay struct {
	Date   string         `json:"date"`
	Events []models.Event `json:"events"`
}

// CalendarMonth is the calendar view of one month.
type CalendarMonth struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// ExportFormat selects the roster rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// RosterExport is a rendered participant roster.
type RosterExport struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}
