package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// APIKeyPrefix marks the credential class so leaked tokens are
	// recognizable in logs and secret scanners.
	APIKeyPrefix = "sk_"

	apiKeySecretBytes = 24
	apiKeySuffixLen   = 4
)

// GenerateAPIKey produces a fresh plaintext key together with its sha256
// digest and display suffix. The plaintext is handed to the caller exactly
// once and is never persisted.
func GenerateAPIKey() (plaintext string, digest string, suffix string, err error) {
	secret := make([]byte, apiKeySecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", "", "", fmt.Errorf("failed to generate key material: %w", err)
	}

	plaintext = APIKeyPrefix + hex.EncodeToString(secret)
	return plaintext, HashAPIKey(plaintext), KeySuffix(plaintext), nil
}

// HashAPIKey returns the hex sha256 digest of the full plaintext token.
// The digest is the only stored representation of the secret.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// KeySuffix returns the last four characters of the plaintext for display
// purposes only. It carries no security properties.
func KeySuffix(plaintext string) string {
	if len(plaintext) < apiKeySuffixLen {
		return plaintext
	}
	return plaintext[len(plaintext)-apiKeySuffixLen:]
}
