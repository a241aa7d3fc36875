package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// CodeTTL is how long a one-time code (2FA or password reset) stays valid.
// Expiry is data on the user record, compared against the wall clock at
// verification time — not a scheduled timeout.
const CodeTTL = 10 * time.Minute

// GenerateCode produces a fixed-width 6-digit decimal one-time code,
// zero-padded ("042137" is a valid code).
//
// WHY crypto/rand AND NOT math/rand?
// One-time codes are a security credential, short-lived as they are.
// math/rand is deterministic given its seed; crypto/rand draws from the
// OS entropy source and is safe for secrets.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("auth: generating one-time code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CodeExpiry returns the expiration instant for a code generated now.
func CodeExpiry(now time.Time) time.Time {
	return now.Add(CodeTTL)
}
