package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const SecretKeyLength = 32

// GenerateSecretKey returns a random hex encoded key suitable for ENV_AUTH_JWT_SECRET.
func GenerateSecretKey() (string, error) {
	key := make([]byte, SecretKeyLength)

	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}

	return hex.EncodeToString(key), nil
}

// SafeDisplay keeps the first characters of a secret and masks the rest.
func SafeDisplay(secret string) string {
	visibleChars := 10

	if len(secret) <= visibleChars {
		return secret
	}

	return secret[:visibleChars] + "..."
}
