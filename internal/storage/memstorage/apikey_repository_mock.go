package memstorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
)

// APIKeyRepositoryMock is an in-memory apikey.Repository used by tests.
type APIKeyRepositoryMock struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]*apikey.APIKey
}

func NewAPIKeyRepositoryMock() *APIKeyRepositoryMock {
	return &APIKeyRepositoryMock{
		keys: make(map[uuid.UUID]*apikey.APIKey),
	}
}

var _ apikey.Repository = (*APIKeyRepositoryMock)(nil)

func (r *APIKeyRepositoryMock) Create(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.keys {
		if existing.Digest == key.Digest {
			return uuid.Nil, apikey.ErrDigestCollision
		}
	}

	key.ID = uuid.New()
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}
	stored := *key
	r.keys[key.ID] = &stored
	return key.ID, nil
}

func (r *APIKeyRepositoryMock) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*apikey.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*apikey.APIKey
	for _, key := range r.keys {
		if key.AccountID == accountID {
			keyCopy := *key
			out = append(out, &keyCopy)
		}
	}
	// Newest first, as the SQL repository orders.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *APIKeyRepositoryMock) Revoke(ctx context.Context, id, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key, ok := r.keys[id]; ok && key.AccountID == accountID {
		delete(r.keys, id)
	}
	return nil
}

func (r *APIKeyRepositoryMock) FindByDigest(ctx context.Context, digest string) (*apikey.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range r.keys {
		if key.Digest == digest {
			return &apikey.Identity{KeyID: key.ID, AccountID: key.AccountID}, nil
		}
	}
	return nil, apikey.ErrNotFound
}

// Exists reports whether a key id is still stored, regardless of owner.
func (r *APIKeyRepositoryMock) Exists(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keys[id]
	return ok
}
