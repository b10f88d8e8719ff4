package memstorage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/account"
)

type AccountRepositoryMock struct {
	mu       sync.RWMutex
	byEmail  map[string]*account.Account
	byGoogle map[string]*account.Account
}

func NewAccountRepositoryMock() *AccountRepositoryMock {
	return &AccountRepositoryMock{
		byEmail:  make(map[string]*account.Account),
		byGoogle: make(map[string]*account.Account),
	}
}

var _ account.Repository = (*AccountRepositoryMock)(nil)

func (r *AccountRepositoryMock) GetOrCreate(ctx context.Context, profile account.Profile) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if acc, ok := r.byGoogle[profile.GoogleID]; ok {
		acc.Name = profile.Name
		acc.AvatarURL = profile.AvatarURL
		acc.UpdatedAt = time.Now().UTC()
		accCopy := *acc
		return &accCopy, nil
	}

	now := time.Now().UTC()
	acc := &account.Account{
		ID:        uuid.New(),
		GoogleID:  profile.GoogleID,
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byGoogle[profile.GoogleID] = acc
	r.byEmail[strings.ToLower(profile.Email)] = acc

	accCopy := *acc
	return &accCopy, nil
}

func (r *AccountRepositoryMock) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, account.ErrNotFound
	}
	accCopy := *acc
	return &accCopy, nil
}
