package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// TokenBytes is the bearer token entropy: 256 bits
const TokenBytes = 32

// NewSessionToken returns an unpadded base64url bearer token
func NewSessionToken() (string, error) {
	var b [TokenBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// NewSessionID returns the storage key for a session, unrelated to its token
func NewSessionID() string {
	return uuid.NewString()
}
