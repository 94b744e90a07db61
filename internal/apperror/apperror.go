// Package apperror defines the domain error taxonomy shared by the service
// and handler layers.
//
// Services return these errors; the HTTP layer translates them to status
// codes with errors.Is. Keeping the taxonomy in one small package means the
// service layer never imports net/http and the handler layer never inspects
// error strings.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap them in an AppError and check with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// AppError carries a sentinel plus a human-readable message. For
// insufficient-stock errors it also reports the available and requested
// quantities; a business outcome the client displays, not a fault.
type AppError struct {
	Err       error  // sentinel from the list above
	Message   string // human-readable error message
	Field     string // optional: field causing a validation error
	Available int    // set on insufficient-stock errors
	Requested int    // set on insufficient-stock errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict takes a full message rather than a resource/id pair; duplicate
// names are reported with user-facing text like "sweet with this name
// already exists".
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or invalid credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InsufficientStock reports a purchase that asked for more units than are
// on hand. Available and Requested are included in the HTTP response body.
func InsufficientStock(available, requested int) *AppError {
	return &AppError{
		Err:       ErrInsufficientStock,
		Message:   "insufficient stock",
		Available: available,
		Requested: requested,
	}
}
