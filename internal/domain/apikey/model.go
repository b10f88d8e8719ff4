package apikey

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is the stored form of an external access key. Only the sha256
// digest of the secret survives creation; the plaintext is returned to the
// owner once and never persisted.
type APIKey struct {
	ID        uuid.UUID `db:"id"`
	AccountID uuid.UUID `db:"account_id"`
	Label     string    `db:"label"`
	Digest    string    `db:"digest"`
	Suffix    string    `db:"suffix"`
	CreatedAt time.Time `db:"created_at"`
}

// Identity is the resolved owner of a presented bearer token, carried
// through the admission path.
type Identity struct {
	KeyID     uuid.UUID
	AccountID uuid.UUID
}
