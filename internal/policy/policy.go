// Package policy holds the access rules shared by the HTTP layer and the event service.
// Every predicate is pure and treats a nil user as unauthenticated.
package policy

import "github.com/noah-isme/campus-events-api/internal/models"

// Authenticated reports whether user identifies a signed-in account.
func Authenticated(user *models.User) bool {
	return user != nil && user.ID != ""
}

// CanCreateEvent allows organizers and admins to submit events.
func CanCreateEvent(user *models.User) bool {
	if !Authenticated(user) {
		return false
	}
	return user.Role == models.RoleOrganizer || user.Role == models.RoleAdmin
}

// CanManageEvent governs edit, delete and roster export.
func CanManageEvent(user *models.User, event *models.Event) bool {
	if !Authenticated(user) || event == nil {
		return false
	}
	return user.Role == models.RoleAdmin || user.ID == event.CreatedBy
}

// CanModerateEvent governs approve/reject.
func CanModerateEvent(user *models.User) bool {
	return Authenticated(user) && user.Role == models.RoleAdmin
}

// CanToggleRegistration is open to every authenticated role, the creator included.
func CanToggleRegistration(user *models.User, event *models.Event) bool {
	return Authenticated(user) && event != nil
}

// CanViewEvent exposes approved events to everyone and the rest to their creator and admins.
func CanViewEvent(user *models.User, event *models.Event) bool {
	if event == nil {
		return false
	}
	if event.Status == models.EventStatusApproved {
		return true
	}
	if !Authenticated(user) {
		return false
	}
	return user.Role == models.RoleAdmin || user.ID == event.CreatedBy
}
