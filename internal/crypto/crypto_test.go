package crypto

import (
	"errors"
	"testing"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	env, err := NewEnvelope("test-secret")
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}

	const plaintext = "AIzaSyFakeGeminiKey1234567890"

	encrypted, err := env.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if encrypted == plaintext {
		t.Fatal("Ciphertext equals plaintext")
	}

	decrypted, err := env.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if decrypted != plaintext {
		t.Errorf("Expected %q, got %q", plaintext, decrypted)
	}
}

func TestEnvelope_NonceUniqueness(t *testing.T) {
	env, err := NewEnvelope("test-secret")
	if err != nil {
		t.Fatalf("NewEnvelope failed: %v", err)
	}

	first, err := env.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := env.Encrypt("same input")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if first == second {
		t.Error("Two encryptions of the same input produced identical envelopes")
	}
}

func TestEnvelope_WrongSecret(t *testing.T) {
	env1, _ := NewEnvelope("secret-one")
	env2, _ := NewEnvelope("secret-two")

	encrypted, err := env1.Encrypt("payload")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	if _, err := env2.Decrypt(encrypted); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("Expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestEnvelope_GarbageInput(t *testing.T) {
	env, _ := NewEnvelope("secret")

	for _, input := range []string{"", "not-base64!!!", "YWJj"} {
		if _, err := env.Decrypt(input); !errors.Is(err, ErrInvalidCiphertext) {
			t.Errorf("Decrypt(%q): expected ErrInvalidCiphertext, got %v", input, err)
		}
	}
}

func TestNewEnvelope_EmptySecret(t *testing.T) {
	if _, err := NewEnvelope(""); err == nil {
		t.Error("Expected error for empty secret")
	}
}
