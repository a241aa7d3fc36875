// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the store
//
// Handlers only know about HTTP. Services only know about business rules.
// Neither knows about SQL. Services receive repository INTERFACES, not the
// concrete sqlite implementation, so tests can inject in-memory fakes and
// the storage backend can be swapped in one place (server.go).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emoai/emoai-server/internal/apperror"
	"github.com/emoai/emoai-server/internal/auth"
	"github.com/emoai/emoai-server/internal/model"
	"github.com/emoai/emoai-server/internal/repository"
)

// defaultName is assigned when registration omits the display name.
const defaultName = "Estudiante EmoAI"

// AuthService orchestrates the authentication state machine:
//
//	Anonymous ── Register ──────────────────────→ Authenticated
//	Anonymous ── Login (2FA off) ───────────────→ Authenticated
//	Anonymous ── Login (2FA on) ─→ AwaitingTwoFactor ── VerifyTwoFactor ─→ Authenticated
//	Anonymous ── RequestPasswordReset ─→ AwaitingPasswordReset ── ResetPassword ─→ Anonymous
//
// The pending-code fields on the user record ARE the intermediate states:
// a user with a non-nil TwoFactorCode is mid-challenge, and consuming the
// code (one conditional write clearing code+expiry iff it still matches) is
// the transition out.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger

	// demoMode echoes one-time codes in responses instead of delivering them
	// out of band. The original demo always did this; here it is opt-in and
	// must stay off anywhere real.
	demoMode bool
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	demoMode bool,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		demoMode:  demoMode,
		logger:    logger,
	}
}

// AuthResult bundles the public user and the issued JWT so the handler can
// respond in one step.
type AuthResult struct {
	User  model.PublicUser
	Token string
}

// LoginOutcome is what Login produces: either an authenticated session
// (Auth set) or a two-factor challenge (Requires2FA set). Never both.
// Code is populated only in demo mode.
type LoginOutcome struct {
	Auth        *AuthResult
	Requires2FA bool
	Message     string
	Code        string
}

// ResetRequestOutcome is the always-successful acknowledgment of a password
// reset request. Code is populated only in demo mode when the user exists.
type ResetRequestOutcome struct {
	Message string
	Code    string
}

// Register creates a new account with two-factor disabled and logs it in
// immediately.
//
// Email and password are required; the name defaults and the institution is
// optional. Email uniqueness is enforced by the store — a duplicate surfaces
// as apperror.ErrDuplicateEmail from Create, with no race window.
func (s *AuthService) Register(ctx context.Context, name, email, password, institution string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email y contraseña son obligatorios")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Institution:  strings.TrimSpace(institution),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user (email=%s): %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueToken(user)
}

// Login checks the credentials and either issues a token (two-factor
// disabled) or starts a two-factor challenge (enabled).
//
// ENUMERATION SAFETY:
// "No such user" and "wrong password" return the exact same error. If they
// differed, an attacker could probe which emails have accounts. The bcrypt
// comparison only runs when the user exists, so the two paths do differ in
// timing — acceptable for this system, noted as a known limitation.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginOutcome, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user for login: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	// Two-factor disabled → straight to Authenticated.
	if !user.TwoFactorEnabled {
		result, err := s.issueToken(user)
		if err != nil {
			return nil, err
		}
		return &LoginOutcome{Auth: result}, nil
	}

	// Two-factor enabled → generate a fresh challenge. A previous pending
	// code (e.g. an abandoned login) is simply overwritten.
	code, err := auth.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	expires := auth.CodeExpiry(time.Now())
	user.TwoFactorCode = &code
	user.TwoFactorCodeExpires = &expires

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: storing 2FA code for user %d: %w", user.ID, err)
	}

	s.logger.Info("two-factor challenge issued", slog.Int64("userID", user.ID))

	outcome := &LoginOutcome{
		Requires2FA: true,
		Message:     "se ha enviado un código de verificación a tu correo",
	}
	if s.demoMode {
		outcome.Code = code
	}
	return outcome, nil
}

// VerifyTwoFactor completes a pending two-factor challenge.
//
// The code is single-use: the repository clears it ONLY if it still matches,
// in one atomic statement, so of any number of concurrent verifications with
// the same code exactly one succeeds — the rest get InvalidCode, exactly as
// if the code had already been spent sequentially. Expiry is compared against
// the wall clock NOW, not when the code was generated.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Same error as a wrong code — don't leak which emails exist.
			return nil, apperror.InvalidCode()
		}
		return nil, fmt.Errorf("service/auth: looking up user for 2FA: %w", err)
	}

	if user.TwoFactorCode == nil || *user.TwoFactorCode != code {
		return nil, apperror.InvalidCode()
	}

	if user.TwoFactorCodeExpires != nil && user.TwoFactorCodeExpires.Before(time.Now()) {
		return nil, apperror.CodeExpired()
	}

	// Consume the code. The checks above produced the precise error for the
	// common paths; this conditional write is the actual gate, and losing it
	// (someone else consumed the code in between) reads as an invalid code.
	consumed, err := s.users.ConsumeTwoFactorCode(ctx, user.ID, code)
	if err != nil {
		return nil, fmt.Errorf("service/auth: consuming 2FA code for user %d: %w", user.ID, err)
	}
	if !consumed {
		return nil, apperror.InvalidCode()
	}

	s.logger.Info("two-factor verified", slog.Int64("userID", user.ID))

	return s.issueToken(user)
}

// RequestPasswordReset starts the recovery flow.
//
// It ALWAYS reports success with the same message whether or not the email
// is registered — the response must not reveal which accounts exist. When
// the user does exist, a reset code with a 10-minute expiry is stored.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*ResetRequestOutcome, error) {
	const message = "si el correo está registrado, se ha enviado un código de recuperación"

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &ResetRequestOutcome{Message: message}, nil
		}
		return nil, fmt.Errorf("service/auth: looking up user for reset: %w", err)
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	expires := auth.CodeExpiry(time.Now())
	user.ResetCode = &code
	user.ResetCodeExpires = &expires

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: storing reset code for user %d: %w", user.ID, err)
	}

	s.logger.Info("password reset requested", slog.Int64("userID", user.ID))

	outcome := &ResetRequestOutcome{Message: message}
	if s.demoMode {
		outcome.Code = code
	}
	return outcome, nil
}

// ResetPassword completes the recovery flow: it replaces the password hash
// and consumes the reset code. No token is issued — the client returns to
// Anonymous and must log in with the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return apperror.ValidationFailed("newPassword", "la nueva contraseña es obligatoria")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.InvalidResetRequest()
		}
		return fmt.Errorf("service/auth: looking up user for reset: %w", err)
	}

	if user.ResetCode == nil {
		return apperror.InvalidResetRequest()
	}
	if *user.ResetCode != code {
		return apperror.InvalidCode()
	}
	if user.ResetCodeExpires != nil && user.ResetCodeExpires.Before(time.Now()) {
		return apperror.CodeExpired()
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}

	// Replace the hash and consume the code in one conditional write. A
	// concurrent reset that got there first leaves no pending code, which is
	// the same state as never having requested one.
	consumed, err := s.users.ConsumeResetCode(ctx, user.ID, code, hash)
	if err != nil {
		return fmt.Errorf("service/auth: updating password for user %d: %w", user.ID, err)
	}
	if !consumed {
		return apperror.InvalidResetRequest()
	}

	s.logger.Info("password reset completed", slog.Int64("userID", user.ID))

	return nil
}

// SetTwoFactor toggles the two-factor flag for an account. This is the
// out-of-band switch that makes the 2FA login path reachable; disabling it
// also discards any pending challenge.
func (s *AuthService) SetTwoFactor(ctx context.Context, email string, enabled bool) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("service/auth: looking up user for 2FA toggle: %w", err)
	}

	user.TwoFactorEnabled = enabled
	if !enabled {
		user.TwoFactorCode = nil
		user.TwoFactorCodeExpires = nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/auth: toggling 2FA for user %d: %w", user.ID, err)
	}

	s.logger.Info("two-factor flag changed",
		slog.Int64("userID", user.ID),
		slog.Bool("enabled", enabled),
	)
	return nil
}

// issueToken mints a session token for the user.
func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}
