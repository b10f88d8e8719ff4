package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/account"
	"go.uber.org/zap"
)

type AccountRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAccountRepository(db *pgxpool.Pool, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:     db,
		logger: logger.Named("AccountRepository"),
	}
}

var _ account.Repository = (*AccountRepository)(nil)

func (r *AccountRepository) GetOrCreate(ctx context.Context, profile account.Profile) (*account.Account, error) {
	query := `
		INSERT INTO accounts (google_id, email, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (google_id) DO UPDATE
			SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
		RETURNING id, google_id, email, name, avatar_url, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, profile.GoogleID, profile.Email, profile.Name, profile.AvatarURL)

	acc, err := scanAccount(row)
	if err != nil {
		r.logger.Error("Failed to get or create account", zap.String("email", profile.Email), zap.Error(err))
		return nil, fmt.Errorf("db error upserting account: %w", err)
	}
	return acc, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := `
		SELECT id, google_id, email, name, avatar_url, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}
		r.logger.Error("Failed to find account by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("db error finding account: %w", err)
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.GoogleID,
		&acc.Email,
		&acc.Name,
		&acc.AvatarURL,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
