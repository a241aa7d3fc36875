package auth

import (
	"strings"
	"testing"
)

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_ReturnsNonEmptyHash(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Error("Hash() returned empty string")
	}
}

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// bcrypt hashes always start with $2a$ or $2b$
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := NewPasswordServiceForTest()

	// bcrypt generates a random salt each time, so two hashes for the
	// same password must differ — otherwise rainbow tables would work.
	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	// 73 bytes — one over bcrypt's limit
	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, err := ps.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "secret1"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest()

	hash, _ := ps.Hash("secret1")

	if err := ps.Verify(hash, "secret2"); err == nil {
		t.Error("Verify() should fail for a wrong password")
	}
}

func TestNewPasswordService_ClampsInvalidCost(t *testing.T) {
	// An out-of-range cost silently falls back to the default rather than
	// producing a service that errors on every Hash call.
	ps := NewPasswordService(99)
	if ps.cost != defaultCost {
		t.Errorf("cost = %d, want default %d for out-of-range input", ps.cost, defaultCost)
	}
}
