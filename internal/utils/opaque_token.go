package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// NewOpaqueToken returns nBytes of crypto/rand entropy as an unpadded URL-safe string.
// Used for ad session tokens and OAuth state.
func NewOpaqueToken(nBytes int) (string, error) {
	if nBytes < 16 {
		return "", fmt.Errorf("opaque token needs at least 16 bytes of entropy, got %d", nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashOpaqueToken returns the hex SHA-256 of a bearer token so only the hash is stored.
func HashOpaqueToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
