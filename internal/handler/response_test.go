package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emoai/emoai-server/internal/apperror"
)

// Every domain error must land on the documented status code and a stable
// machine-readable type — the front end branches on these.
func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("mood", "mood requerido"), http.StatusBadRequest, "validation_error"},
		{"duplicate email", apperror.DuplicateEmail(), http.StatusBadRequest, "duplicate_email"},
		{"invalid credentials", apperror.InvalidCredentials(), http.StatusBadRequest, "invalid_credentials"},
		{"invalid code", apperror.InvalidCode(), http.StatusBadRequest, "invalid_code"},
		{"code expired", apperror.CodeExpired(), http.StatusBadRequest, "code_expired"},
		{"invalid reset request", apperror.InvalidResetRequest(), http.StatusBadRequest, "invalid_reset_request"},
		{"unauthorized", apperror.Unauthorized(), http.StatusUnauthorized, "unauthorized"},
		{"not found", apperror.NotFound("user", 9), http.StatusNotFound, "not_found"},
		{"unknown error is a generic 500", errors.New("sql: connection reset"), http.StatusInternalServerError, "internal_error"},
		{"wrapped domain error still maps", fmt.Errorf("service/auth: %w", apperror.InvalidCode()), http.StatusBadRequest, "invalid_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if resp.Error != tt.wantType {
				t.Errorf("error type = %q, want %q", resp.Error, tt.wantType)
			}
			if resp.Message == "" {
				t.Error("error message must not be empty")
			}
		})
	}
}

func TestWriteError_NeverLeaksInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("SELECT * FROM users WHERE secret"))

	var resp ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Message != "An internal error occurred" {
		t.Errorf("internal error message leaked details: %q", resp.Message)
	}
}
