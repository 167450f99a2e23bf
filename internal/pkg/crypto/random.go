// Package crypto provides random token helpers for Lit Up.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// passwordChars contains characters used in generated edge passwords.
// Alphanumeric only, so the value survives Basic auth encoding and
// parameter-store round trips without escaping surprises.
const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// BuildHashLength is the length of a playlist build hash in hex characters.
const BuildHashLength = 8

// GenerateBuildHash generates a short random hex tag for a playlist build.
// The site uses it as a cache-busting token, so it only needs to be
// unique across builds, not cryptographically meaningful.
func GenerateBuildHash() (string, error) {
	buf := make([]byte, BuildHashLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate build hash: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GeneratePassword generates a random 24-character password for the
// edge Basic auth parameters.
func GeneratePassword() (string, error) {
	return generateRandomString(24, passwordChars)
}

// generateRandomString generates a random string of the specified length
// using characters from the provided character set.
func generateRandomString(length int, charset string) (string, error) {
	result := make([]byte, length)
	charsetLen := len(charset)

	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	for i := 0; i < length; i++ {
		result[i] = charset[int(randomBytes[i])%charsetLen]
	}

	return string(result), nil
}
