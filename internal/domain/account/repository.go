package account

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("account not found")

type Repository interface {
	GetOrCreate(ctx context.Context, profile Profile) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}
