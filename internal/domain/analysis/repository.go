package analysis

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("analysis not found")

type Repository interface {
	Save(ctx context.Context, rec *Record) (uuid.UUID, error)
	ListForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*Record, error)
	FindByID(ctx context.Context, id, accountID uuid.UUID) (*Record, error)
}
