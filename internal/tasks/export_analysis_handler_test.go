package tasks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/postlens/post-analyzer-api/internal/config"
	"go.uber.org/zap"
)

func TestAnalysisExportPostsPayloadToWebhook(t *testing.T) {
	var received AnalysisExportPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("webhook body is not JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	handler := NewAnalysisExportHandler(&config.TelemetryConfig{
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	}, zap.NewNop())

	payload := AnalysisExportPayload{
		Email:        "user@example.com",
		ImageName:    "launch-post.png",
		OverallScore: 8.5,
		Prompt:       "A bold fitness transformation post",
		Colors:       []string{"Coral (#FF6F61)"},
		AnalyzedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	task, err := NewAnalysisExportTask(payload)
	if err != nil {
		t.Fatalf("NewAnalysisExportTask: %v", err)
	}

	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask: %v", err)
	}

	if received.Email != payload.Email || received.ImageName != payload.ImageName {
		t.Errorf("webhook received %+v, want %+v", received, payload)
	}
	if len(received.Colors) != 1 || received.Colors[0] != payload.Colors[0] {
		t.Errorf("colors = %v, want %v", received.Colors, payload.Colors)
	}
}

func TestAnalysisExportReturnsErrorOnWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	handler := NewAnalysisExportHandler(&config.TelemetryConfig{
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	}, zap.NewNop())

	task, err := NewAnalysisExportTask(AnalysisExportPayload{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("NewAnalysisExportTask: %v", err)
	}

	// Non-2xx must surface as an error so asynq retries.
	if err := handler.ProcessTask(context.Background(), task); err == nil {
		t.Error("ProcessTask succeeded against a failing webhook")
	}
}

func TestAnalysisExportNoopWhenUnconfigured(t *testing.T) {
	handler := NewAnalysisExportHandler(&config.TelemetryConfig{Timeout: 5 * time.Second}, zap.NewNop())

	task, err := NewAnalysisExportTask(AnalysisExportPayload{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("NewAnalysisExportTask: %v", err)
	}

	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Errorf("ProcessTask with no webhook configured returned %v, want nil", err)
	}
}
