package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/credential"
	"go.uber.org/zap"
)

type CredentialRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCredentialRepository(db *pgxpool.Pool, logger *zap.Logger) *CredentialRepository {
	return &CredentialRepository{
		db:     db,
		logger: logger.Named("CredentialRepository"),
	}
}

var _ credential.Repository = (*CredentialRepository)(nil)

func (r *CredentialRepository) Upsert(ctx context.Context, cred *credential.Credential) error {
	query := `
		INSERT INTO credentials (account_id, provider, api_key_encrypted, is_valid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, provider) DO UPDATE
			SET api_key_encrypted = EXCLUDED.api_key_encrypted,
			    is_valid = EXCLUDED.is_valid,
			    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		cred.AccountID,
		cred.Provider,
		cred.KeyEncrypted,
		cred.IsValid,
	).Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)

	if err != nil {
		r.logger.Error("Failed to upsert credential",
			zap.String("account_id", cred.AccountID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("db error upserting credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*credential.Credential, error) {
	query := `
		SELECT id, account_id, provider, api_key_encrypted, is_valid, created_at, updated_at
		FROM credentials
		WHERE account_id = $1 AND provider = $2
	`
	row := r.db.QueryRow(ctx, query, accountID, credential.ProviderGemini)

	var cred credential.Credential
	err := row.Scan(
		&cred.ID,
		&cred.AccountID,
		&cred.Provider,
		&cred.KeyEncrypted,
		&cred.IsValid,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, credential.ErrNotFound
		}
		r.logger.Error("Failed to find credential", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error finding credential: %w", err)
	}

	return &cred, nil
}

func (r *CredentialRepository) Delete(ctx context.Context, accountID uuid.UUID) error {
	query := `DELETE FROM credentials WHERE account_id = $1 AND provider = $2`
	if _, err := r.db.Exec(ctx, query, accountID, credential.ProviderGemini); err != nil {
		r.logger.Error("Failed to delete credential", zap.String("account_id", accountID.String()), zap.Error(err))
		return fmt.Errorf("db error deleting credential: %w", err)
	}
	return nil
}
