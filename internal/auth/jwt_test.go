package auth

import (
	"testing"
	"time"
)

// newTestTokenService creates a TokenService for testing.
// It uses a fixed, known secret so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("")
	if err == nil {
		t.Fatal("NewTokenService() should reject an empty secret")
	}
}

// =========================================================================
// GENERATE TESTS
// =========================================================================

func TestGenerate_ReturnsNonEmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(1, "ana@x.com", "Ana")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Error("Generate() returned empty token")
	}

	// JWT tokens have 3 dot-separated parts: header.payload.signature
	dots := 0
	for _, c := range token {
		if c == '.' {
			dots++
		}
	}
	if dots != 2 {
		t.Errorf("Generate() token doesn't look like a JWT (expected 2 dots, got %d)", dots)
	}
}

func TestGenerate_DifferentUsersGetDifferentTokens(t *testing.T) {
	ts := newTestTokenService(t)

	token1, _ := ts.Generate(1, "a@x.com", "A")
	token2, _ := ts.Generate(2, "b@x.com", "B")

	if token1 == token2 {
		t.Error("Generate() returned identical tokens for different users")
	}
}

// =========================================================================
// VALIDATE TESTS
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate(42, "ana@x.com", "Ana")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Validate should return the exact identity we put in
	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Validate() UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "ana@x.com" {
		t.Errorf("Validate() Email = %q, want %q", claims.Email, "ana@x.com")
	}
	if claims.Name != "Ana" {
		t.Errorf("Validate() Name = %q, want %q", claims.Name, "Ana")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Mint a token that expired a minute ago
	token, err := ts.GenerateWithDuration(42, "ana@x.com", "Ana", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() should reject an expired token")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate(42, "ana@x.com", "Ana")

	// Flip a character in the payload section — signature no longer matches
	tampered := token[:len(token)-2] + "xx"

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() should reject a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts1 := newTestTokenService(t)
	ts2, err := NewTokenService("a-completely-different-secret!!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, _ := ts1.Generate(42, "ana@x.com", "Ana")

	if _, err := ts2.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token signed with a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ts.Validate(tok); err == nil {
			t.Errorf("Validate(%q) should have failed", tok)
		}
	}
}
