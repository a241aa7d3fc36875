// Package handler contains the HTTP layer: request parsing, response
// writing, and nothing else. Business rules live in internal/service.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/service"
)

// AuthHandler exposes the authentication flow over HTTP:
//
//	POST /auth/register               → create account, token immediately
//	POST /auth/login                  → token, or a 2FA challenge
//	POST /auth/verify-2fa             → complete the challenge, token
//	POST /auth/request-password-reset → always 200, generic acknowledgment
//	POST /auth/reset-password         → replace password, no token
//
// There is no logout endpoint: tokens are stateless, so logout is purely a
// client-side transition (the client discards its copy). A token stays
// technically valid until it expires two hours after issuance.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// authResponse is the success payload for register/login/verify-2fa.
type authResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// challengeResponse is the login payload when 2FA is required.
// Code is only set by demo mode — `omitempty` keeps it out of the JSON
// entirely in a sane configuration.
type challengeResponse struct {
	Requires2FA bool   `json:"requires2fa"`
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /auth/register
// Body: {"name"?, "email", "password", "institution"?}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Institution string `json:"institution"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Institution)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleLogin authenticates a user.
//
// HTTP: POST /auth/login
// Body: {"email", "password"}
//
// TWO RESPONSE SHAPES:
// Without 2FA the response is {token, user}. With 2FA it is
// {requires2fa, message} and the client must follow up with /auth/verify-2fa.
// The front end branches on the requires2fa field.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if outcome.Requires2FA {
		writeJSON(w, http.StatusOK, challengeResponse{
			Requires2FA: true,
			Message:     outcome.Message,
			Code:        outcome.Code,
		})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: outcome.Auth.Token, User: outcome.Auth.User})
}

// HandleVerifyTwoFactor completes a pending 2FA challenge.
//
// HTTP: POST /auth/verify-2fa
// Body: {"email", "code"}
func (h *AuthHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.auth.VerifyTwoFactor(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleRequestPasswordReset starts the recovery flow.
//
// HTTP: POST /auth/request-password-reset
// Body: {"email"}
//
// This endpoint ALWAYS returns 200 with the same message — see the service
// for the enumeration-safety reasoning.
func (h *AuthHandler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	outcome, err := h.auth.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	}{Message: outcome.Message, Code: outcome.Code}

	writeJSON(w, http.StatusOK, resp)
}

// HandleResetPassword completes the recovery flow.
//
// HTTP: POST /auth/reset-password
// Body: {"email", "code", "newPassword"}
//
// No token is issued — the client logs in again with the new password.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "contraseña actualizada correctamente",
	})
}
