package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain taxonomy. Services wrap these inside an
// *AppError; the HTTP layer maps each sentinel to a status code with
// errors.Is, so the service layer never touches HTTP status codes.
var (
	ErrValidation          = errors.New("validation error")
	ErrDuplicateEmail      = errors.New("duplicate email")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidCode         = errors.New("invalid code")
	ErrCodeExpired         = errors.New("code expired")
	ErrInvalidResetRequest = errors.New("invalid reset request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
)

type AppError struct {
	Err     error  // sentinel identifying the error class
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateEmail reports a registration attempt with an email that is
// already taken. The original API surfaces this as a 400, not a 409.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "el email ya está registrado",
	}
}

// InvalidCredentials is the single generic login failure. Unknown email and
// wrong password both produce this exact error so callers cannot enumerate
// which accounts exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "credenciales inválidas",
	}
}

// InvalidCode covers a missing or mismatched one-time code (2FA or reset).
func InvalidCode() *AppError {
	return &AppError{
		Err:     ErrInvalidCode,
		Message: "código incorrecto",
	}
}

// CodeExpired covers a code presented after its 10-minute window.
func CodeExpired() *AppError {
	return &AppError{
		Err:     ErrCodeExpired,
		Message: "el código ha expirado",
	}
}

// InvalidResetRequest covers a reset attempt when no reset was requested.
func InvalidResetRequest() *AppError {
	return &AppError{
		Err:     ErrInvalidResetRequest,
		Message: "datos de recuperación inválidos",
	}
}

// Unauthorized covers missing, malformed, expired, or tampered tokens.
// All of those are indistinguishable to the caller.
func Unauthorized() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "token inválido",
	}
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}
