package apikey

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("api key not found")
	ErrDigestCollision = errors.New("api key digest already exists")
)

type Repository interface {
	Create(ctx context.Context, key *APIKey) (uuid.UUID, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*APIKey, error)
	// Revoke deletes the key matching both id and owning account. A missing
	// row is not an error: callers must not be able to distinguish a key
	// they never owned from one that never existed.
	Revoke(ctx context.Context, id, accountID uuid.UUID) error
	FindByDigest(ctx context.Context, digest string) (*Identity, error)
}
