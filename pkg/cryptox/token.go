package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (32 hex chars).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (64 hex chars).
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token of the given
// byte length, hex-encoded.
//
// Common sizes:
//   - TokenSize128 (16 bytes): state, consent and authorization-code tokens
//   - TokenSize256 (32 bytes): bearer access tokens (longest-lived credential)
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GeneratePrefixedToken creates a random token carrying a kind prefix, e.g.
// "consent_3f9a...". Prefixes keep the different short-lived artifact kinds
// (state, consent, code, access token) from being confused for one another.
func GeneratePrefixedToken(prefix string, size int) (string, error) {
	token, err := GenerateToken(size)
	if err != nil {
		return "", err
	}
	return prefix + "_" + token, nil
}

// MustGenerateToken is like GenerateToken but panics on error. Use this only
// during initialization or in tests where failure is unrecoverable.
func MustGenerateToken(size int) string {
	token, err := GenerateToken(size)
	if err != nil {
		panic(fmt.Sprintf("cryptox: failed to generate token: %v", err))
	}
	return token
}

// ConstantTimeEquals compares two strings in constant time. Used for the
// configured credential pair so timing does not leak a prefix match.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
