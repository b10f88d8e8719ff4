package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/crypto"
	"github.com/postlens/post-analyzer-api/internal/gemini"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/storage/memstorage"
	"go.uber.org/zap"
)

type probeStub struct {
	probeErr error
}

func (g *probeStub) GenerateContent(ctx context.Context, apiKey string, image gemini.InlineImage, prompt string) (string, error) {
	return "", errors.New("not used in this test")
}

func (g *probeStub) Probe(ctx context.Context, apiKey string) error {
	return g.probeErr
}

func newCredentialService(t *testing.T, probeErr error) (*CredentialService, *memstorage.CredentialRepositoryMock) {
	t.Helper()
	envelope, err := crypto.NewEnvelope("credential-test-secret")
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	repo := memstorage.NewCredentialRepositoryMock()
	return NewCredentialService(repo, envelope, &probeStub{probeErr: probeErr}, zap.NewNop()), repo
}

func TestCredentialSaveAndResolveRoundTrip(t *testing.T) {
	svc, _ := newCredentialService(t, nil)
	accountID := uuid.New()
	const upstreamKey = "AIzaSyTestUpstreamKey123456"

	resp, err := svc.Save(context.Background(), accountID, upstreamKey)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !resp.Success || !resp.IsValid {
		t.Errorf("save response = %+v, want success and valid", resp)
	}
	if !strings.HasSuffix(resp.MaskedKey, upstreamKey[len(upstreamKey)-6:]) {
		t.Errorf("masked key %q does not end with the key tail", resp.MaskedKey)
	}
	if strings.Contains(resp.MaskedKey, upstreamKey[:10]) {
		t.Errorf("masked key %q exposes the key head", resp.MaskedKey)
	}

	resolved, err := svc.ResolveKey(context.Background(), accountID)
	if err != nil {
		t.Fatalf("ResolveKey: %v", err)
	}
	if resolved != upstreamKey {
		t.Errorf("resolved key = %q, want the saved plaintext", resolved)
	}
}

func TestCredentialSaveStoresCiphertextOnly(t *testing.T) {
	svc, repo := newCredentialService(t, nil)
	accountID := uuid.New()
	const upstreamKey = "AIzaSyTestUpstreamKey123456"

	if _, err := svc.Save(context.Background(), accountID, upstreamKey); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stored, err := repo.FindByAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("FindByAccount: %v", err)
	}
	if strings.Contains(stored.KeyEncrypted, upstreamKey) {
		t.Error("stored credential contains the plaintext key")
	}
}

func TestCredentialSaveRejectedByProbe(t *testing.T) {
	svc, _ := newCredentialService(t, ierr.ErrUpstreamInvalidAPIKey)

	_, err := svc.Save(context.Background(), uuid.New(), "definitely-wrong-key")
	if !errors.Is(err, ierr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestCredentialStatusWithoutCredential(t *testing.T) {
	svc, _ := newCredentialService(t, nil)

	status, err := svc.Status(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.HasCredential {
		t.Error("HasCredential = true for unprovisioned account")
	}
}

func TestCredentialDeleteUnprovisionsAccount(t *testing.T) {
	svc, _ := newCredentialService(t, nil)
	accountID := uuid.New()

	if _, err := svc.Save(context.Background(), accountID, "AIzaSyTestUpstreamKey123456"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(context.Background(), accountID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.ResolveKey(context.Background(), accountID); !errors.Is(err, ierr.ErrNoUpstreamCredential) {
		t.Errorf("ResolveKey after delete = %v, want ErrNoUpstreamCredential", err)
	}
}
