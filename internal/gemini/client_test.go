package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

func TestExtractJSON_Plain(t *testing.T) {
	raw, err := ExtractJSON(`{"postType":"Single Image","score":8}`)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["postType"] != "Single Image" {
		t.Errorf("Unexpected postType: %v", out["postType"])
	}
}

func TestExtractJSON_MarkdownFenced(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"colorAnalysis\":{\"score\":9}}\n```\nHope this helps!"

	raw, err := ExtractJSON(text)
	if err != nil {
		t.Fatalf("ExtractJSON failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := out["colorAnalysis"]; !ok {
		t.Error("colorAnalysis missing from extracted JSON")
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	for _, text := range []string{"", "I cannot analyze this image.", "}{"} {
		if _, err := ExtractJSON(text); !errors.Is(err, ierr.ErrUpstreamParseFailure) {
			t.Errorf("ExtractJSON(%q): expected ErrUpstreamParseFailure, got %v", text, err)
		}
	}
}

func TestExtractJSON_InvalidCandidate(t *testing.T) {
	if _, err := ExtractJSON(`{"broken": `); !errors.Is(err, ierr.ErrUpstreamParseFailure) {
		t.Errorf("Expected ErrUpstreamParseFailure, got %v", err)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.GeminiConfig{
		BaseURL:        srv.URL,
		Model:          "gemini-3-pro-preview",
		RequestTimeout: 5 * time.Second,
	}
	return NewClient(cfg, zap.NewNop()), srv
}

func TestClient_GenerateContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "upstream-key" {
			t.Errorf("Expected api key header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": `{"ok":true}`}},
				},
			}},
		})
	})

	text, err := client.GenerateContent(context.Background(), "upstream-key",
		InlineImage{MimeType: "image/png", Data: "aGVsbG8="}, "analyze this")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if text != `{"ok":true}` {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestClient_GenerateContent_UnauthorizedStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	})

	_, err := client.GenerateContent(context.Background(), "bad-key",
		InlineImage{MimeType: "image/png", Data: "aGVsbG8="}, "analyze this")
	if !errors.Is(err, ierr.ErrUpstreamInvalidAPIKey) {
		t.Errorf("Expected ErrUpstreamInvalidAPIKey, got %v", err)
	}
}

func TestClient_GenerateContent_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`))
	})

	err := client.Probe(context.Background(), "key")
	if !errors.Is(err, ierr.ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}
