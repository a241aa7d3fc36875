// Package auth provides JWT session tokens, password hashing, and one-time
// codes for the EmoAI API.
//
// SESSION MODEL:
// 1. A user registers or logs in (possibly completing a 2FA challenge)
// 2. The server issues a JWT carrying {id, email, name}, valid for 2 hours
// 3. The client stores the token and presents it as "Authorization: Bearer ..."
// 4. Middleware validates the signature and expiry on every protected call
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store session
// data. All the information needed (identity, expiry) is inside the signed
// token, and the signature ensures nobody can tamper with it without the
// secret key. The flip side: there is no revocation list, so "logout" is
// purely client-side and a token stays valid until it expires naturally.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

// TokenTTL is the fixed validity window for session tokens.
const TokenTTL = 2 * time.Hour

const issuer = "emoai"

// Claims is the validated identity extracted from a token. This is what the
// middleware puts into the request context — handlers never see the raw JWT.
type Claims struct {
	UserID int64
	Email  string
	Name   string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations — keep it out of source control
// and rotate it periodically in production.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret must not be empty")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// tokenClaims is the JWT payload. It embeds jwt.RegisteredClaims (Subject,
// ExpiresAt, IssuedAt, ID, ...) and adds the email and name the original API
// carried in its tokens, so a client can render the user without a second
// round trip.
type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given identity.
//
// Token lifetime: 2 hours, no refresh mechanism. The "jti" claim is a fresh
// xid so individual tokens are distinguishable in logs even for the same user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for signing
// and verifying, which fits a single-server deployment.
func (s *TokenService) Generate(userID int64, email, name string) (string, error) {
	now := time.Now()

	c := tokenClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			Issuer:    issuer,
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Tests use it to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, email, name string, d time.Duration) (string, error) {
	now := time.Now()

	c := tokenClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string, returning the embedded identity.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches "emoai" (prevents tokens from other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// An expired token and a tampered one produce the same caller-visible
// failure. That is deliberate: the 401 the API returns must not reveal
// which check failed.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	var userID int64
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil || userID <= 0 {
		return nil, fmt.Errorf("auth: token has no usable subject")
	}

	return &Claims{
		UserID: userID,
		Email:  c.Email,
		Name:   c.Name,
	}, nil
}
