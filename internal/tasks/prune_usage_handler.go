package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"go.uber.org/zap"
)

// UsagePruneHandler deletes ledger events older than the configured
// retention. The rate window only ever reads recent events, so anything past
// retention is dead weight.
type UsagePruneHandler struct {
	repo      usage.Repository
	retention time.Duration
	logger    *zap.Logger
}

func NewUsagePruneHandler(repo usage.Repository, retention time.Duration, logger *zap.Logger) *UsagePruneHandler {
	return &UsagePruneHandler{
		repo:      repo,
		retention: retention,
		logger:    logger.Named("UsagePruneHandler"),
	}
}

func (h *UsagePruneHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if t.Type() != TypeUsagePrune {
		return fmt.Errorf("unexpected task type: %s", t.Type())
	}

	var p UsagePrunePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.logger.Error("Failed to unmarshal usage prune payload", zap.Error(err), zap.ByteString("payload", t.Payload()))
		return fmt.Errorf("invalid payload: %v", err)
	}

	cutoff := time.Now().UTC().Add(-h.retention)
	removed, err := h.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		h.logger.Error("Failed to prune usage events", zap.Time("cutoff", cutoff), zap.Error(err))
		return fmt.Errorf("repository error pruning usage events: %w", err)
	}

	h.logger.Info("Usage ledger pruned", zap.Time("cutoff", cutoff), zap.Int64("removed", removed))
	return nil
}
