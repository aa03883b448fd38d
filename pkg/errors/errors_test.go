package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "event not found")

	assert.Equal(t, "event not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(sql.ErrConnDone, ErrInternal.Code, ErrInternal.Status, "failed to load event")

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Contains(t, err.Error(), "failed to load event")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("context: %w", ErrInvalidTransition)
	assert.Equal(t, http.StatusConflict, FromError(wrapped).Status)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
}
