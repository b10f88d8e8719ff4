package usage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Record(ctx context.Context, keyID, accountID uuid.UUID) error
	// CountSince counts events for the key with timestamps strictly inside
	// the sliding window ending now. The count is always computed against
	// the store at call time; two concurrent callers each see the durable
	// count, not a locally cached one.
	CountSince(ctx context.Context, keyID uuid.UUID, window time.Duration) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
