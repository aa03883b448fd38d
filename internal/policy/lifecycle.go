package policy

import (
	"fmt"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

var transitions = map[models.EventStatus][]models.EventStatus{
	models.EventStatusPending: {models.EventStatusApproved, models.EventStatusRejected},
}

// Transition validates a status change. Approved and rejected are terminal.
func Transition(from, to models.EventStatus) error {
	if !to.Valid() {
		return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("unknown status %q", to))
	}
	if from.Terminal() {
		return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("event is already %s", from))
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move event from %s to %s", from, to))
}
