package services

import (
	"crypto/rand"
	"encoding/base64"
)

// State parameter length in random bytes. RFC 6749 §10.12 only demands
// non-guessability; 32 bytes is well past the 16-byte floor.
const stateLength = 32

// GenerateState creates a random state parameter for CSRF protection.
// A fresh value must be generated for every login attempt.
func GenerateState() (string, error) {
	bytes := make([]byte, stateLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
