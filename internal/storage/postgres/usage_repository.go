package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"go.uber.org/zap"
)

type UsageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUsageRepository(db *pgxpool.Pool, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger.Named("UsageRepository"),
	}
}

var _ usage.Repository = (*UsageRepository)(nil)

func (r *UsageRepository) Record(ctx context.Context, keyID, accountID uuid.UUID) error {
	query := `INSERT INTO api_usage (key_id, account_id) VALUES ($1, $2)`
	if _, err := r.db.Exec(ctx, query, keyID, accountID); err != nil {
		r.logger.Error("Failed to record usage event",
			zap.String("key_id", keyID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("db error recording usage: %w", err)
	}
	return nil
}

func (r *UsageRepository) CountSince(ctx context.Context, keyID uuid.UUID, window time.Duration) (int, error) {
	// Sliding window: events strictly newer than now - window, evaluated by
	// the database at query time.
	query := `
		SELECT COUNT(*)
		FROM api_usage
		WHERE key_id = $1 AND timestamp > NOW() - make_interval(secs => $2)
	`
	var count int
	if err := r.db.QueryRow(ctx, query, keyID, window.Seconds()).Scan(&count); err != nil {
		r.logger.Error("Failed to count usage events",
			zap.String("key_id", keyID.String()),
			zap.Error(err),
		)
		return 0, fmt.Errorf("db error counting usage: %w", err)
	}
	return count, nil
}

func (r *UsageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM api_usage WHERE timestamp < $1`
	cmdTag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		r.logger.Error("Failed to prune usage events", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0, fmt.Errorf("db error pruning usage: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
