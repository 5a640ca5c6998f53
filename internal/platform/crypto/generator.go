// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateSecureRandomString creates a cryptographically secure random string.
// n is the number of bytes of randomness; the result is 2n lowercase hex
// characters, safe for use in URLs and slugs.
func GenerateSecureRandomString(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
