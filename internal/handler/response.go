package handler

// Response helpers shared by all handlers: one JSON writer and one error
// translator, so every endpoint produces the same shapes.
//
// Error responses always look like
//
//	{"error":"not_found","message":"sweet not found with id abc"}
//
// with available/requested added for insufficient stock, which the client
// shows as a business outcome rather than a failure.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/sweet-shop/internal/apperror"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Available *int   `json:"available,omitempty"`
	Requested *int   `json:"requested,omitempty"`
}

// writeJSON sends a JSON response. Headers and status must be set before
// the body; Encode writes the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and body.
//
// Duplicate names map to 400 (not 409): the API treats a duplicate as a
// rejected request, same as the rest of its validation failures, and the
// browser client relies on that.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrInsufficientStock):
			status = http.StatusBadRequest
			errorType = "insufficient_stock"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		}

		resp := ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		}
		if errors.Is(err, apperror.ErrInsufficientStock) {
			available, requested := appErr.Available, appErr.Requested
			resp.Available = &available
			resp.Requested = &requested
		}

		writeJSON(w, status, resp)
		return
	}

	// Unknown fault: opaque 500, details stay in the logs.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
