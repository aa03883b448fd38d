package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/noah-isme/campus-events-api/internal/models"
	appErrors "github.com/noah-isme/campus-events-api/pkg/errors"
)

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// loadActor resolves the acting user from the current record so role changes apply at call time.
// An empty id yields a nil actor (anonymous caller).
func loadActor(ctx context.Context, users userReader, actorID string) (*models.User, error) {
	if actorID == "" {
		return nil, nil
	}
	user, err := users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "acting user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acting user")
	}
	return user, nil
}

// requireActor is loadActor for operations that need a signed-in user.
func requireActor(ctx context.Context, users userReader, actorID string) (*models.User, error) {
	if actorID == "" {
		return nil, appErrors.ErrUnauthorized
	}
	return loadActor(ctx, users, actorID)
}
