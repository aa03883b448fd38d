package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents an application user stored in the users table.
type User struct {
	ID    string   `db:"id" json:"id"`
	Name  string   `db:"name" json:"name"`
	Email string   `db:"email" json:"email"`
	Role  UserRole `db:"role" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
