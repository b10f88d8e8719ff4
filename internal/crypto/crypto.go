package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope encrypts upstream model credentials at rest with AES-256-GCM.
// The data key is derived from a configured secret via PBKDF2; the nonce is
// prepended to the ciphertext and the whole envelope is base64-encoded.
type Envelope struct {
	key []byte
}

const (
	pbkdf2Iterations = 100_000
	keyLength        = 32
	nonceLength      = 12
)

var envelopeSalt = []byte("post-analyzer-salt")

var ErrInvalidCiphertext = errors.New("invalid ciphertext envelope")

func NewEnvelope(secret string) (*Envelope, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}
	key := pbkdf2.Key([]byte(secret), envelopeSalt, pbkdf2Iterations, keyLength, sha256.New)
	return &Envelope{key: key}, nil
}

func (e *Envelope) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create gcm: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *Envelope) Decrypt(envelope string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(raw) < nonceLength {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create gcm: %w", err)
	}

	nonce, ciphertext := raw[:nonceLength], raw[nonceLength:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	return string(plaintext), nil
}
