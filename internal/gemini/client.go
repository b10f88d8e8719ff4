package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

// InlineImage is the caller-supplied image payload, base64 data plus mime
// type, forwarded to the model inline.
type InlineImage struct {
	MimeType string
	Data     string
}

// Generator is the upstream analysis boundary. The HTTP client below is the
// production implementation; tests substitute fakes.
type Generator interface {
	GenerateContent(ctx context.Context, apiKey string, image InlineImage, prompt string) (string, error)
	Probe(ctx context.Context, apiKey string) error
}

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Generator = (*Client)(nil)

func NewClient(cfg *config.GeminiConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("GeminiClient"),
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends the image and prompt to the model and returns the
// raw text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, apiKey string, image InlineImage, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: image.MimeType, Data: image.Data}},
				{Text: prompt},
			},
		}},
	}
	return c.generate(ctx, apiKey, reqBody)
}

// Probe makes a minimal text-only call to verify that the supplied model
// key is accepted upstream.
func (c *Client) Probe(ctx context.Context, apiKey string) error {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{{Text: "Say 'API key validated' in exactly those words."}},
		}},
	}
	_, err := c.generate(ctx, apiKey, reqBody)
	return err
}

func (c *Client) generate(ctx context.Context, apiKey string, reqBody generateRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Upstream generate call failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ierr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ierr.ErrUpstreamUnavailable, err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("Upstream returned non-JSON body",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body_head", body[:min(len(body), 512)]),
		)
		return "", fmt.Errorf("%w: status %d", ierr.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", ierr.ErrUpstreamInvalidAPIKey, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
			if strings.Contains(parsed.Error.Status, "PERMISSION_DENIED") || strings.Contains(msg, "API key") {
				return "", fmt.Errorf("%w: %s", ierr.ErrUpstreamInvalidAPIKey, msg)
			}
		}
		return "", fmt.Errorf("%w: status %d: %s", ierr.ErrUpstreamUnavailable, resp.StatusCode, msg)
	}

	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	return sb.String(), nil
}

// ExtractJSON pulls the first top-level JSON object out of model output,
// tolerating markdown fences and prose around it.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in output", ierr.ErrUpstreamParseFailure)
	}

	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, fmt.Errorf("%w: extracted candidate is not valid JSON", ierr.ErrUpstreamParseFailure)
	}
	return json.RawMessage(candidate), nil
}
