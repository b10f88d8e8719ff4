package credential

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("credential not found")

type Repository interface {
	// Upsert inserts or replaces the account's credential for the provider
	// using the store's native conflict resolution.
	Upsert(ctx context.Context, cred *Credential) error
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*Credential, error)
	Delete(ctx context.Context, accountID uuid.UUID) error
}
