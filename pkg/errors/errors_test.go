package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validation("limit must be an integer between 1 and 100."))

	appErr := FromError(err)
	assert.Equal(t, ErrValidation.Code, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "limit must be an integer between 1 and 100.", appErr.Message)
}

func TestFromErrorMapsUnknownToInternal(t *testing.T) {
	appErr := FromError(stdErrors.New("disk on fire"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Internal server error.", appErr.Message)
}

func TestClonedErrorsMatchTemplate(t *testing.T) {
	err := Clone(ErrNotFound, "Event not found.")
	assert.True(t, stdErrors.Is(err, ErrNotFound))
	assert.False(t, stdErrors.Is(err, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Internal(cause, "failed to load events")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
