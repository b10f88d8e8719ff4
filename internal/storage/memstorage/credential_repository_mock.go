package memstorage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/credential"
)

type CredentialRepositoryMock struct {
	mu    sync.RWMutex
	creds map[uuid.UUID]*credential.Credential
}

func NewCredentialRepositoryMock() *CredentialRepositoryMock {
	return &CredentialRepositoryMock{
		creds: make(map[uuid.UUID]*credential.Credential),
	}
}

var _ credential.Repository = (*CredentialRepositoryMock)(nil)

func (r *CredentialRepositoryMock) Upsert(ctx context.Context, cred *credential.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.creds[cred.AccountID]; ok {
		cred.ID = existing.ID
		cred.CreatedAt = existing.CreatedAt
	} else {
		cred.ID = uuid.New()
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	stored := *cred
	r.creds[cred.AccountID] = &stored
	return nil
}

func (r *CredentialRepositoryMock) FindByAccount(ctx context.Context, accountID uuid.UUID) (*credential.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.creds[accountID]
	if !ok {
		return nil, credential.ErrNotFound
	}
	credCopy := *cred
	return &credCopy, nil
}

func (r *CredentialRepositoryMock) Delete(ctx context.Context, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.creds, accountID)
	return nil
}
