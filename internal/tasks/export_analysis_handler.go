package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/postlens/post-analyzer-api/internal/config"
	"go.uber.org/zap"
)

// AnalysisExportHandler ships one telemetry row per successful dashboard
// analysis to an external webhook. This is a best-effort side channel: the
// caller has already received its response by the time this runs, and a
// permanently failing export is only logged.
type AnalysisExportHandler struct {
	cfg        *config.TelemetryConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewAnalysisExportHandler(cfg *config.TelemetryConfig, logger *zap.Logger) *AnalysisExportHandler {
	return &AnalysisExportHandler{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("AnalysisExportHandler"),
	}
}

func (h *AnalysisExportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if t.Type() != TypeAnalysisExport {
		return fmt.Errorf("unexpected task type: %s", t.Type())
	}

	if h.cfg.WebhookURL == "" {
		h.logger.Debug("Telemetry webhook not configured, dropping export task")
		return nil
	}

	var p AnalysisExportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.logger.Error("Failed to unmarshal export payload", zap.Error(err))
		return fmt.Errorf("invalid payload: %v", err)
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal export row: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build export request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("Telemetry export request failed", zap.Error(err))
		return fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		h.logger.Warn("Telemetry webhook returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("email", p.Email),
		)
		return fmt.Errorf("export webhook status %d", resp.StatusCode)
	}

	h.logger.Debug("Telemetry row exported", zap.String("email", p.Email), zap.String("image", p.ImageName))
	return nil
}
