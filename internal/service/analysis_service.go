package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/postlens/post-analyzer-api/internal/domain/account"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"github.com/postlens/post-analyzer-api/internal/gemini"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/metrics"
	"github.com/postlens/post-analyzer-api/internal/tasks"
	"go.uber.org/zap"
)

// AnalysisService is the gateway to the upstream multimodal model. It owns
// prompt selection, output parsing, history persistence and the usage ledger
// write for external calls.
type AnalysisService struct {
	analysisRepo analysis.Repository
	usageRepo    usage.Repository
	credentials  *CredentialService
	generator    gemini.Generator
	enqueuer     tasks.Enqueuer
	logger       *zap.Logger
}

func NewAnalysisService(
	analysisRepo analysis.Repository,
	usageRepo usage.Repository,
	credentials *CredentialService,
	generator gemini.Generator,
	enqueuer tasks.Enqueuer,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		analysisRepo: analysisRepo,
		usageRepo:    usageRepo,
		credentials:  credentials,
		generator:    generator,
		enqueuer:     enqueuer,
		logger:       logger.Named("AnalysisService"),
	}
}

// AnalyzeForDashboard runs a full analysis for a signed-in account, saves it
// to history and ships a telemetry row in the background.
func (s *AnalysisService) AnalyzeForDashboard(ctx context.Context, acc *account.Account, req dto.AnalyzeRequest) (analysis.Result, error) {
	upstreamKey, err := s.credentials.ResolveKey(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	prompt := gemini.AnalysisSystemPrompt
	if req.Mode == "deep" {
		prompt = gemini.DeepAnalysisSystemPrompt
	}

	result, raw, err := s.runAnalysis(ctx, "dashboard", upstreamKey, gemini.InlineImage{
		MimeType: req.MimeType,
		Data:     req.ImageBase64,
	}, prompt)
	if err != nil {
		return nil, err
	}

	imageName := req.ImageName
	if imageName == "" {
		imageName = "Untitled"
	}

	rec := &analysis.Record{
		AccountID:      acc.ID,
		ImageName:      imageName,
		ImageThumbnail: thumbnail(req.MimeType, req.ImageBase64),
		AnalysisJSON:   raw,
	}
	if _, err := s.analysisRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("repository error saving analysis: %w", err)
	}

	s.exportTelemetry(acc.Email, imageName, result)

	return result, nil
}

// AnalyzeExternal handles an admitted key-authenticated request. Only a
// successful analysis increments the usage ledger, and a ledger write
// failure never turns an otherwise successful analysis into an error.
func (s *AnalysisService) AnalyzeExternal(ctx context.Context, ident apikey.Identity, image gemini.InlineImage) (*analysis.PublicResult, error) {
	upstreamKey, err := s.credentials.ResolveKey(ctx, ident.AccountID)
	if err != nil {
		return nil, err
	}

	result, _, err := s.runAnalysis(ctx, "external", upstreamKey, image, gemini.DeepAnalysisSystemPrompt)
	if err != nil {
		return nil, err
	}

	if err := s.usageRepo.Record(ctx, ident.KeyID, ident.AccountID); err != nil {
		// Under-counting beats failing a request that already succeeded.
		s.logger.Error("Failed to record usage event after successful analysis",
			zap.String("key_id", ident.KeyID.String()),
			zap.Error(err),
		)
	}

	public := analysis.PublicView(result)
	return &public, nil
}

func (s *AnalysisService) runAnalysis(ctx context.Context, surface, upstreamKey string, image gemini.InlineImage, prompt string) (analysis.Result, json.RawMessage, error) {
	start := time.Now()
	text, err := s.generator.GenerateContent(ctx, upstreamKey, image, prompt)
	metrics.AnalysisDuration.WithLabelValues(surface).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(surface, "upstream_error").Inc()
		return nil, nil, err
	}

	raw, err := gemini.ExtractJSON(text)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(surface, "parse_error").Inc()
		s.logger.Warn("Upstream output was not parseable JSON",
			zap.String("surface", surface),
			zap.String("output_head", head(text, 500)),
		)
		return nil, nil, err
	}

	var result analysis.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		metrics.AnalysesTotal.WithLabelValues(surface, "parse_error").Inc()
		return nil, nil, fmt.Errorf("%w: %v", ierr.ErrUpstreamParseFailure, err)
	}

	metrics.AnalysesTotal.WithLabelValues(surface, "ok").Inc()
	return result, raw, nil
}

// exportTelemetry enqueues the side-channel export. Fire and forget: any
// failure is logged and never reaches the caller.
func (s *AnalysisService) exportTelemetry(email, imageName string, result analysis.Result) {
	if s.enqueuer == nil {
		return
	}

	payload := tasks.AnalysisExportPayload{
		Email:      email,
		ImageName:  imageName,
		Prompt:     stringField(result, "reverseEngineeredPrompt"),
		AnalyzedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if rec, ok := result["recommendations"].(map[string]any); ok {
		payload.OverallScore = rec["overallScore"]
	}
	if ca, ok := result["colorAnalysis"].(map[string]any); ok {
		if colors, ok := ca["extractedColors"].([]any); ok {
			for _, c := range colors {
				if cm, ok := c.(map[string]any); ok {
					payload.Colors = append(payload.Colors, fmt.Sprintf("%v (%v)", cm["name"], cm["hex"]))
				}
			}
		}
	}
	if ta, ok := result["typographyAnalysis"].(map[string]any); ok {
		if fonts, ok := ta["identifiedFonts"].([]any); ok {
			for _, f := range fonts {
				if fm, ok := f.(map[string]any); ok {
					payload.Fonts = append(payload.Fonts, fmt.Sprintf("%v", fm["font"]))
				}
			}
		}
	}
	if ha, ok := result["hookAnalysis"].(map[string]any); ok {
		if hooks, ok := ha["alternativeHooks"].([]any); ok {
			for _, hk := range hooks {
				payload.Hooks = append(payload.Hooks, fmt.Sprintf("%v", hk))
			}
		}
	}

	task, err := tasks.NewAnalysisExportTask(payload)
	if err != nil {
		s.logger.Warn("Failed to build telemetry export task", zap.Error(err))
		return
	}
	if _, err := s.enqueuer.Enqueue(task); err != nil {
		s.logger.Warn("Failed to enqueue telemetry export", zap.Error(err))
	}
}

func stringField(result analysis.Result, key string) string {
	if v, ok := result[key].(string); ok {
		return v
	}
	return ""
}

// thumbnail keeps a recognizable clip of the uploaded image for the history
// list without storing the full payload twice.
func thumbnail(mimeType, imageBase64 string) string {
	clip := imageBase64
	if len(clip) > 200 {
		clip = clip[:200]
	}
	return fmt.Sprintf("data:%s;base64,%s...", mimeType, clip)
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
