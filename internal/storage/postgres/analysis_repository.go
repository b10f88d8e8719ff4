package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
	"go.uber.org/zap"
)

type AnalysisRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAnalysisRepository(db *pgxpool.Pool, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		db:     db,
		logger: logger.Named("AnalysisRepository"),
	}
}

var _ analysis.Repository = (*AnalysisRepository)(nil)

func (r *AnalysisRepository) Save(ctx context.Context, rec *analysis.Record) (uuid.UUID, error) {
	query := `
		INSERT INTO analysis_history (account_id, image_name, image_thumbnail, analysis_json)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		rec.AccountID,
		rec.ImageName,
		rec.ImageThumbnail,
		rec.AnalysisJSON,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to save analysis", zap.String("account_id", rec.AccountID.String()), zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error saving analysis: %w", err)
	}

	return rec.ID, nil
}

func (r *AnalysisRepository) ListForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*analysis.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, account_id, image_name, image_thumbnail, analysis_json, created_at
		FROM analysis_history
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to list analyses", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error listing analyses: %w", err)
	}
	defer rows.Close()

	var records []*analysis.Record
	for rows.Next() {
		var rec analysis.Record
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.ImageName, &rec.ImageThumbnail, &rec.AnalysisJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error scanning analysis: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error iterating analyses: %w", err)
	}

	return records, nil
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id, accountID uuid.UUID) (*analysis.Record, error) {
	query := `
		SELECT id, account_id, image_name, image_thumbnail, analysis_json, created_at
		FROM analysis_history
		WHERE id = $1 AND account_id = $2
	`
	var rec analysis.Record
	err := r.db.QueryRow(ctx, query, id, accountID).Scan(
		&rec.ID, &rec.AccountID, &rec.ImageName, &rec.ImageThumbnail, &rec.AnalysisJSON, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, analysis.ErrNotFound
		}
		r.logger.Error("Failed to find analysis", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("db error finding analysis: %w", err)
	}

	return &rec, nil
}
