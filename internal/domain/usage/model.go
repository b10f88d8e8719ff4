package usage

import (
	"time"

	"github.com/google/uuid"
)

// Event is one append-only record per admitted and successfully processed
// external request.
type Event struct {
	ID        uuid.UUID `db:"id"`
	KeyID     uuid.UUID `db:"key_id"`
	AccountID uuid.UUID `db:"account_id"`
	Timestamp time.Time `db:"timestamp"`
}
