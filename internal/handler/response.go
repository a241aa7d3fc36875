package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//
//	{"error": "invalid_code", "message": "código incorrecto"}
//
// This makes it easy for the front end to parse errors — it always knows
// what fields to expect, regardless of whether it's a 400, 401, or 500.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/emoai/emoai-server/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "invalid_code")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code must be set BEFORE writing the body. Once Encode
// writes the first byte, the headers are sent and any later changes are
// silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
// This is where domain errors (from the service layer) get translated to
// HTTP. The service layer returns apperror sentinels; this function maps
// them to status codes so the services never have to know about HTTP.
//
// Note that almost the whole auth taxonomy maps to 400 — that mirrors the
// original API, which used 400 for every client-side auth failure and kept
// 401 strictly for missing/invalid tokens.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	// errors.As walks the chain (via Unwrap) and fills appErr if it finds one.
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrDuplicateEmail):
			status = http.StatusBadRequest
			errorType = "duplicate_email"
		case errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
			errorType = "invalid_credentials"
		case errors.Is(err, apperror.ErrInvalidCode):
			status = http.StatusBadRequest
			errorType = "invalid_code"
		case errors.Is(err, apperror.ErrCodeExpired):
			status = http.StatusBadRequest
			errorType = "code_expired"
		case errors.Is(err, apperror.ErrInvalidResetRequest):
			status = http.StatusBadRequest
			errorType = "invalid_reset_request"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — return a generic 500. NEVER expose internal error
	// details to the client; the raw message might contain SQL or paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a JSON request body into dst, returning a validation
// error for malformed JSON so the client gets a 400, not a 500.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
