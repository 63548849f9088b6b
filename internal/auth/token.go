// Package auth - token.go generates one-time credential tokens for password reset
// and invitation links. The raw token goes into the emailed link; only its SHA-256
// hash is stored, so a database leak cannot be replayed.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// OneTimeTokenLength is the length of the random token in bytes
const OneTimeTokenLength = 32

// GenerateOneTimeToken creates a new random token.
// Returns: raw token (to embed in a link, shown once) and its storage hash.
func GenerateOneTimeToken() (token string, hash string, err error) {
	randomBytes := make([]byte, OneTimeTokenLength)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	token = base64.RawURLEncoding.EncodeToString(randomBytes)
	return token, HashOneTimeToken(token), nil
}

// HashOneTimeToken returns the hex SHA-256 digest used as the storage key
func HashOneTimeToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
