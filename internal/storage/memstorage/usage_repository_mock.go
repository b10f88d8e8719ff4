package memstorage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
)

// UsageRepositoryMock is an in-memory usage.Repository with an injectable
// clock so tests can move time past the rate window.
type UsageRepositoryMock struct {
	mu     sync.RWMutex
	events []usage.Event

	// Now is the clock used for both recording and counting. Defaults to
	// time.Now.
	Now func() time.Time

	// FailRecord makes Record return an error, for testing the best-effort
	// ledger write.
	FailRecord bool
}

func NewUsageRepositoryMock() *UsageRepositoryMock {
	return &UsageRepositoryMock{
		Now: time.Now,
	}
}

var _ usage.Repository = (*UsageRepositoryMock)(nil)

func (r *UsageRepositoryMock) Record(ctx context.Context, keyID, accountID uuid.UUID) error {
	if r.FailRecord {
		return errors.New("simulated usage write failure")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, usage.Event{
		ID:        uuid.New(),
		KeyID:     keyID,
		AccountID: accountID,
		Timestamp: r.Now(),
	})
	return nil
}

func (r *UsageRepositoryMock) CountSince(ctx context.Context, keyID uuid.UUID, window time.Duration) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := r.Now().Add(-window)
	count := 0
	for _, ev := range r.events {
		if ev.KeyID == keyID && ev.Timestamp.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (r *UsageRepositoryMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	var removed int64
	for _, ev := range r.events {
		if ev.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	r.events = kept
	return removed, nil
}

// EventCount returns the total number of stored events.
func (r *UsageRepositoryMock) EventCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
