package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		google_id VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS credentials (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		provider VARCHAR(50) NOT NULL DEFAULT 'gemini',
		api_key_encrypted TEXT NOT NULL,
		is_valid BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(account_id, provider)
	)`,
	`CREATE TABLE IF NOT EXISTS analysis_history (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		image_name VARCHAR(255) NOT NULL DEFAULT '',
		image_thumbnail TEXT NOT NULL DEFAULT '',
		analysis_json JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		label VARCHAR(255) NOT NULL,
		digest TEXT UNIQUE NOT NULL,
		suffix VARCHAR(4) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS api_usage (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		key_id UUID NOT NULL REFERENCES api_keys(id) ON DELETE CASCADE,
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_api_usage_key_ts ON api_usage (key_id, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_history_account ON analysis_history (account_id, created_at DESC)`,
}

// InitSchema creates all tables if they do not exist yet. Statements are
// idempotent so the command can run on every deploy.
func InitSchema(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	log := logger.Named("InitSchema")
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	log.Info("Database schema initialized")
	return nil
}
