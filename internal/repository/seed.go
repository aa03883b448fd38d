package repository

import (
	"time"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// SeedUsers returns the demo accounts used by the in-memory store.
func SeedUsers() []models.User {
	return []models.User{
		{ID: "1", Name: "Alice Johnson", Email: "admin@example.com", Role: models.RoleAdmin},
		{ID: "2", Name: "Bob Williams", Email: "organizer@example.com", Role: models.RoleOrganizer},
		{ID: "3", Name: "Charlie Brown", Email: "student@example.com", Role: models.RoleStudent},
		{ID: "4", Name: "Diana Miller", Email: "student2@example.com", Role: models.RoleStudent},
	}
}

// SeedEvents returns demo events dated relative to today.
func SeedEvents(today time.Time) []models.Event {
	in := func(days int) string {
		return today.AddDate(0, 0, days).Format(models.DateLayout)
	}
	return []models.Event{
		{
			ID:           "e1",
			Title:        "Annual Tech Summit",
			Description:  "A gathering of the brightest minds in technology with keynotes, workshops, and networking.",
			Date:         in(5),
			Time:         "09:00",
			Venue:        "Main Auditorium",
			Category:     models.EventCategoryAcademic,
			CreatedBy:    "2",
			Status:       models.EventStatusApproved,
			Participants: []string{"3", "4"},
		},
		{
			ID:           "e2",
			Title:        "React Hooks Workshop",
			Description:  "Deep dive into hooks and advanced patterns. Basic React knowledge expected.",
			Date:         in(12),
			Time:         "14:00",
			Venue:        "Computer Lab 3",
			Category:     models.EventCategoryWorkshop,
			CreatedBy:    "2",
			Status:       models.EventStatusApproved,
			Participants: []string{},
		},
		{
			ID:           "e3",
			Title:        "Spring Music Fest",
			Description:  "An evening of live music from student bands.",
			Date:         in(20),
			Time:         "18:30",
			Venue:        "University Lawn",
			Category:     models.EventCategoryCultural,
			CreatedBy:    "2",
			Status:       models.EventStatusPending,
			Participants: []string{"3"},
		},
		{
			ID:           "e4",
			Title:        "Inter-Departmental Football Match",
			Description:  "Cheer for your department in the final match of the tournament.",
			Date:         in(8),
			Time:         "16:00",
			Venue:        "Sports Ground",
			Category:     models.EventCategorySports,
			CreatedBy:    "2",
			Status:       models.EventStatusApproved,
			Participants: []string{},
		},
		{
			ID:           "e5",
			Title:        "Guest Lecture on AI Ethics",
			Description:  "A talk on the ethical implications of artificial intelligence.",
			Date:         in(2),
			Time:         "11:00",
			Venue:        "Lecture Hall C",
			Category:     models.EventCategoryAcademic,
			CreatedBy:    "1",
			Status:       models.EventStatusApproved,
			Participants: []string{"4"},
		},
	}
}
