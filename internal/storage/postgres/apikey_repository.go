package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"go.uber.org/zap"
)

type APIKeyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAPIKeyRepository(db *pgxpool.Pool, logger *zap.Logger) *APIKeyRepository {
	return &APIKeyRepository{
		db:     db,
		logger: logger.Named("APIKeyRepository"),
	}
}

var _ apikey.Repository = (*APIKeyRepository)(nil)

func (r *APIKeyRepository) Create(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
	query := `
		INSERT INTO api_keys (account_id, label, digest, suffix)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		key.AccountID,
		key.Label,
		key.Digest,
		key.Suffix,
	).Scan(&key.ID, &key.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("API key digest collision on insert",
				zap.String("constraint", pgErr.ConstraintName),
				zap.String("account_id", key.AccountID.String()),
			)
			return uuid.Nil, apikey.ErrDigestCollision
		}
		r.logger.Error("Failed to create api key", zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error creating api key: %w", err)
	}

	r.logger.Info("API key created",
		zap.String("id", key.ID.String()),
		zap.String("account_id", key.AccountID.String()),
	)
	return key.ID, nil
}

func (r *APIKeyRepository) ListForAccount(ctx context.Context, accountID uuid.UUID) ([]*apikey.APIKey, error) {
	query := `
		SELECT id, account_id, label, digest, suffix, created_at
		FROM api_keys
		WHERE account_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list api keys", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error listing api keys: %w", err)
	}
	defer rows.Close()

	var keys []*apikey.APIKey
	for rows.Next() {
		var key apikey.APIKey
		if err := rows.Scan(&key.ID, &key.AccountID, &key.Label, &key.Digest, &key.Suffix, &key.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error scanning api key: %w", err)
		}
		keys = append(keys, &key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error iterating api keys: %w", err)
	}

	return keys, nil
}

func (r *APIKeyRepository) Revoke(ctx context.Context, id, accountID uuid.UUID) error {
	query := `DELETE FROM api_keys WHERE id = $1 AND account_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, accountID)
	if err != nil {
		r.logger.Error("Failed to revoke api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error revoking api key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Not owned or never existed; indistinguishable to the caller.
		r.logger.Debug("Revoke matched no rows", zap.String("id", id.String()))
	}
	return nil
}

func (r *APIKeyRepository) FindByDigest(ctx context.Context, digest string) (*apikey.Identity, error) {
	query := `SELECT id, account_id FROM api_keys WHERE digest = $1`

	var ident apikey.Identity
	err := r.db.QueryRow(ctx, query, digest).Scan(&ident.KeyID, &ident.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apikey.ErrNotFound
		}
		r.logger.Error("Failed to find api key by digest", zap.Error(err))
		return nil, fmt.Errorf("db error finding api key: %w", err)
	}

	return &ident, nil
}
