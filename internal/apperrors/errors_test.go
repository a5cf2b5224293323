package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_Unwrap(t *testing.T) {
	notFound := apperrors.NewNotFoundError("order 7 not found")
	assert.True(t, errors.Is(notFound, apperrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	assert.Contains(t, notFound.Error(), "order 7 not found")

	wrapped := fmt.Errorf("repository: %w", apperrors.NewValidationError("bad id"))
	assert.True(t, errors.Is(wrapped, apperrors.ErrValidation))

	var appErr *apperrors.AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestAppError_ErrorWithoutCause(t *testing.T) {
	err := apperrors.NewAppError(http.StatusInternalServerError, "boom", nil)
	assert.Equal(t, "boom", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
