package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/storage/memstorage"
	"github.com/postlens/post-analyzer-api/internal/util"
	"go.uber.org/zap"
)

func newAdmissionRouter(t *testing.T, keyRepo *memstorage.APIKeyRepositoryMock, usageRepo *memstorage.UsageRepositoryMock, cfg *config.RateLimitConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/analyze", APIKeyAuthMiddleware(keyRepo, usageRepo, cfg, zap.NewNop()), func(c *gin.Context) {
		ident, ok := GetAPIKeyIdentity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"keyId": ident.KeyID.String(), "accountId": ident.AccountID.String()})
	})
	return router
}

func issueKey(t *testing.T, repo *memstorage.APIKeyRepositoryMock, accountID uuid.UUID) (plaintext string, keyID uuid.UUID) {
	t.Helper()
	plaintext, digest, suffix, err := util.GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	key := &apikey.APIKey{
		AccountID: accountID,
		Label:     "test key",
		Digest:    digest,
		Suffix:    suffix,
	}
	id, err := repo.Create(context.Background(), key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return plaintext, id
}

func doAnalyze(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not a JSON object: %v (%s)", err, w.Body.String())
	}
	return body["error"]
}

func TestAdmissionMissingOrMalformedCredential(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bearer no token", "Bearer "},
		{"lowercase scheme", "bearer sk_abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doAnalyze(router, tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if got := errorBody(t, w); got != "Unauthorized. Missing or invalid Bearer token." {
				t.Errorf("error = %q", got)
			}
		})
	}
}

func TestAdmissionUnknownKey(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	// Well-formed but never issued.
	w := doAnalyze(router, "Bearer sk_deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := errorBody(t, w); got != "Invalid API key." {
		t.Errorf("error = %q", got)
	}
}

func TestAdmissionValidKeyPassesIdentity(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	accountID := uuid.New()
	plaintext, keyID := issueKey(t, keyRepo, accountID)

	w := doAnalyze(router, "Bearer "+plaintext)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["keyId"] != keyID.String() {
		t.Errorf("keyId = %q, want %q", body["keyId"], keyID)
	}
	if body["accountId"] != accountID.String() {
		t.Errorf("accountId = %q, want %q", body["accountId"], accountID)
	}
}

func TestAdmissionEnforcesCeiling(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	accountID := uuid.New()
	plaintext, keyID := issueKey(t, keyRepo, accountID)

	// Fill the window to exactly the ceiling.
	for i := 0; i < cfg.Ceiling; i++ {
		if err := usageRepo.Record(context.Background(), keyID, accountID); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	w := doAnalyze(router, "Bearer "+plaintext)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := errorBody(t, w); got != "Rate limit exceeded. Max 10 requests per 60s." {
		t.Errorf("error = %q", got)
	}
}

func TestAdmissionWindowSlides(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	accountID := uuid.New()
	plaintext, keyID := issueKey(t, keyRepo, accountID)

	base := time.Now()
	usageRepo.Now = func() time.Time { return base }
	for i := 0; i < cfg.Ceiling; i++ {
		if err := usageRepo.Record(context.Background(), keyID, accountID); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if w := doAnalyze(router, "Bearer "+plaintext); w.Code != http.StatusTooManyRequests {
		t.Fatalf("at the boundary: status = %d, want 429", w.Code)
	}

	// One tick past the window the old events no longer count.
	usageRepo.Now = func() time.Time { return base.Add(cfg.Window + time.Second) }
	if w := doAnalyze(router, "Bearer "+plaintext); w.Code != http.StatusOK {
		t.Errorf("past the window: status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestAdmissionCountsPerKeyNotPerAccount(t *testing.T) {
	keyRepo := memstorage.NewAPIKeyRepositoryMock()
	usageRepo := memstorage.NewUsageRepositoryMock()
	cfg := &config.RateLimitConfig{Window: time.Minute, Ceiling: 10}
	router := newAdmissionRouter(t, keyRepo, usageRepo, cfg)

	accountID := uuid.New()
	exhaustedPlain, exhaustedID := issueKey(t, keyRepo, accountID)
	freshPlain, _ := issueKey(t, keyRepo, accountID)

	for i := 0; i < cfg.Ceiling; i++ {
		if err := usageRepo.Record(context.Background(), exhaustedID, accountID); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if w := doAnalyze(router, "Bearer "+exhaustedPlain); w.Code != http.StatusTooManyRequests {
		t.Errorf("exhausted key: status = %d, want 429", w.Code)
	}
	if w := doAnalyze(router, "Bearer "+freshPlain); w.Code != http.StatusOK {
		t.Errorf("fresh key under same account: status = %d, want 200", w.Code)
	}
}
