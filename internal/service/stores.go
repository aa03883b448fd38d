package service

// UserDirectory is the user storage every service reads from.
type UserDirectory interface {
	sessionUserRepository
}

// EventStore is the event storage behind EventService.
type EventStore interface {
	eventRepository
}

// AuditStore is the audit trail storage behind AuditService.
type AuditStore interface {
	auditRepository
}
