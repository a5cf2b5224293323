package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConfiguration indicates a setup problem (unsupported currency, missing credential file).
// Runs failing with it are not retried.
var ErrConfiguration = errors.New("configuration error")

// ErrProviderUnavailable indicates a network failure or a non-success response from an upstream source.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrRateNotFound indicates the requested currency is absent from the rate response.
var ErrRateNotFound = errors.New("rate not found")

// ErrAmbiguousRate indicates the requested currency appears more than once in the rate response.
var ErrAmbiguousRate = errors.New("ambiguous rate response")

// ErrRecipientUnreachable indicates the messaging transport cannot deliver to the recipient,
// e.g. the recipient never started a chat with the bot.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// ErrJobAlreadyRunning indicates another run of the same job holds the single-flight guard.
var ErrJobAlreadyRunning = errors.New("job already running")

// AppError is an error carrying the HTTP status a handler should answer with.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}
