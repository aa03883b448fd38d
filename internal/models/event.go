package models

import "time"

// EventStatus tracks the moderation state of an event.
type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is permitted from s.
func (s EventStatus) Terminal() bool {
	return s == EventStatusApproved || s == EventStatusRejected
}

// EventCategory classifies events.
type EventCategory string

const (
	EventCategoryWorkshop EventCategory = "workshop"
	EventCategoryCultural EventCategory = "cultural"
	EventCategoryAcademic EventCategory = "academic"
	EventCategorySports   EventCategory = "sports"
)

// EventCategories lists every recognised category.
var EventCategories = []EventCategory{
	EventCategoryWorkshop,
	EventCategoryCultural,
	EventCategoryAcademic,
	EventCategorySports,
}

// Valid reports whether the category is recognised.
func (c EventCategory) Valid() bool {
	for _, known := range EventCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Layouts for the calendar date and wall-clock time fields.
const (
	DateLayout  = "2006-01-02"
	TimeLayout  = "15:04"
	MonthLayout = "2006-01"
)

// Event is the aggregate of an event and its participant set.
type Event struct {
	ID           string        `db:"id" json:"id"`
	Title        string        `db:"title" json:"title"`
	Description  string        `db:"description" json:"description"`
	Date         string        `db:"event_date" json:"date"`
	Time         string        `db:"event_time" json:"time"`
	Venue        string        `db:"venue" json:"venue"`
	Category     EventCategory `db:"category" json:"category"`
	CreatedBy    string        `db:"created_by" json:"created_by"`
	Status       EventStatus   `db:"status" json:"status"`
	Participants []string      `db:"-" json:"participants"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy so callers never share the participant slice.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Participants = append([]string(nil), e.Participants...)
	if clone.Participants == nil {
		clone.Participants = []string{}
	}
	return &clone
}

// HasParticipant reports whether userID is registered.
func (e *Event) HasParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant registers userID once. It returns false when already present.
func (e *Event) AddParticipant(userID string) bool {
	if e.HasParticipant(userID) {
		return false
	}
	e.Participants = append(e.Participants, userID)
	return true
}

// RemoveParticipant drops userID. It returns false when userID was not registered.
func (e *Event) RemoveParticipant(userID string) bool {
	for i, id := range e.Participants {
		if id == userID {
			e.Participants = append(e.Participants[:i:i], e.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// StartsAt combines Date and Time. ok is false when either is malformed.
func (e *Event) StartsAt() (time.Time, bool) {
	t, err := time.Parse(DateLayout+" "+TimeLayout, e.Date+" "+e.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EventFilter narrows down event listings.
type EventFilter struct {
	Statuses    []EventStatus
	Category    *EventCategory
	StartDate   string
	EndDate     string
	CreatedBy   string
	Participant string
	// VisibleTo restricts non-approved events to those created by this user id.
	VisibleTo string
	Page      int
	PageSize  int
}
