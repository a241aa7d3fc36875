// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

// TABLE-DRIVEN TESTS:
// This is Go's idiomatic pattern for testing multiple cases.
// Instead of writing separate test functions, we define a slice of test cases
// and loop over them. Adding a case = adding one struct to the slice, and
// every case gets a name that shows up in the test output.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string // Descriptive name for test output
		err       error  // The error to test
		target    error  // What we expect it to match
		wantMatch bool   // Should errors.Is() return true?
	}{
		{
			name:      "DuplicateEmail wraps ErrDuplicateEmail",
			err:       DuplicateEmail(),
			target:    ErrDuplicateEmail,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "InvalidCode wraps ErrInvalidCode",
			err:       InvalidCode(),
			target:    ErrInvalidCode,
			wantMatch: true,
		},
		{
			name:      "CodeExpired wraps ErrCodeExpired",
			err:       CodeExpired(),
			target:    ErrCodeExpired,
			wantMatch: true,
		},
		{
			name:      "InvalidResetRequest wraps ErrInvalidResetRequest",
			err:       InvalidResetRequest(),
			target:    ErrInvalidResetRequest,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized(),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "email is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user", 7),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "CodeExpired does NOT match ErrInvalidCode",
			err:       CodeExpired(),
			target:    ErrInvalidCode,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrValidation",
			err:       InvalidCredentials(),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	// t.Run() creates a sub-test for each case.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("user", 42),
			wantMessage: "user not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("mood", "mood requerido"),
			wantMessage: "mood requerido",
		},
		{
			name:        "InvalidCredentials is the generic login failure",
			err:         InvalidCredentials(),
			wantMessage: "credenciales inválidas",
		},
		{
			name:        "CodeExpired matches the original wording",
			err:         CodeExpired(),
			wantMessage: "el código ha expirado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	// Verify that Unwrap() returns the underlying sentinel error.
	// This is what makes errors.Is() work — it "unwraps" the chain.
	err := NotFound("user", 1)
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	// The Field lets handlers tell the frontend WHICH field was invalid.
	err := ValidationFailed("email", "invalid email format")
	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
