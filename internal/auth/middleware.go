package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// errNoToken means the Authorization header is absent or not a Bearer scheme.
var errNoToken = errors.New("auth: no bearer token")

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "claims", c), ANY package that knows the string
// "claims" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type contextKey,
// so only this package can read or write claims in the context.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the "Authorization: Bearer <token>" header, validates
// it, and stores the claims in the request context. If the token is missing,
// expired, or tampered, it returns 401 Unauthorized before any business logic
// runs — the wrapped handler is never called.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler that "wraps" the original. Chi applies middlewares in a chain:
// req → M1 → M2 → Handler → M2 → M1 → resp
//
// BEARER HEADER TRANSPORT:
// The original front end keeps the token in local storage and sends it on
// every call as an Authorization header. We keep that contract — the server
// never sets cookies.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"token inválido"}`))
				return
			}

			// Store claims in context so handlers can read them
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the authenticated identity from the request
// context.
//
// Returns (nil, false) if the request is anonymous (no valid token present).
// On a RequireAuth-protected route it always returns (claims, true).
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// extractClaims reads the Authorization header and validates the bearer token.
func extractClaims(r *http.Request, tokens *TokenService) (*Claims, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, errNoToken
	}

	return tokens.Validate(strings.TrimPrefix(header, prefix))
}
