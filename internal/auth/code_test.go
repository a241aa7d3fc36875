package auth

import (
	"testing"
	"time"
)

func TestGenerateCode_FixedWidth(t *testing.T) {
	// Codes are always exactly 6 decimal digits, zero-padded. Run a batch
	// so short codes (values < 100000) are very likely exercised.
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("GenerateCode() = %q, want exactly 6 characters", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("GenerateCode() = %q contains non-digit %q", code, c)
			}
		}
	}
}

func TestCodeExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := now.Add(10 * time.Minute)
	if got := CodeExpiry(now); !got.Equal(want) {
		t.Errorf("CodeExpiry() = %v, want %v", got, want)
	}
}
