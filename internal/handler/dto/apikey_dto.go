package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAPIKeyRequest struct {
	Label string `json:"name" binding:"required"`
}

// CreateAPIKeyResponse carries the plaintext secret exactly once, at
// creation time. PlainKey is never persisted and never appears in any other
// response.
type CreateAPIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"name"`
	Suffix    string    `json:"lastFour"`
	CreatedAt time.Time `json:"createdAt"`
	PlainKey  string    `json:"plainKey"`
}

type APIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"name"`
	Suffix    string    `json:"lastFour"`
	CreatedAt time.Time `json:"createdAt"`
}
