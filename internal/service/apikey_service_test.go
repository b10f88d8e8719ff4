package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/storage/memstorage"
	"github.com/postlens/post-analyzer-api/internal/util"
	"go.uber.org/zap"
)

func TestCreateAPIKeyReturnsPlaintextOnce(t *testing.T) {
	repo := memstorage.NewAPIKeyRepositoryMock()
	svc := NewAPIKeyService(repo, zap.NewNop())
	accountID := uuid.New()

	resp, err := svc.CreateAPIKey(context.Background(), accountID, "prod key")
	if err != nil {
		t.Fatalf("CreateAPIKey returned error: %v", err)
	}

	if !strings.HasPrefix(resp.PlainKey, util.APIKeyPrefix) {
		t.Errorf("plaintext %q does not start with %q", resp.PlainKey, util.APIKeyPrefix)
	}
	if resp.Suffix != resp.PlainKey[len(resp.PlainKey)-4:] {
		t.Errorf("suffix %q does not match plaintext tail", resp.Suffix)
	}
	if resp.Label != "prod key" {
		t.Errorf("label = %q, want %q", resp.Label, "prod key")
	}

	// The stored record must let the plaintext round-trip via digest lookup.
	ident, err := repo.FindByDigest(context.Background(), util.HashAPIKey(resp.PlainKey))
	if err != nil {
		t.Fatalf("FindByDigest after create: %v", err)
	}
	if ident.AccountID != accountID {
		t.Errorf("resolved account = %s, want %s", ident.AccountID, accountID)
	}
	if ident.KeyID != resp.ID {
		t.Errorf("resolved key id = %s, want %s", ident.KeyID, resp.ID)
	}
}

func TestCreateAPIKeyRejectsEmptyLabel(t *testing.T) {
	svc := NewAPIKeyService(memstorage.NewAPIKeyRepositoryMock(), zap.NewNop())

	for _, label := range []string{"", "   ", "\t"} {
		_, err := svc.CreateAPIKey(context.Background(), uuid.New(), label)
		if !errors.Is(err, ierr.ErrValidation) {
			t.Errorf("label %q: err = %v, want ErrValidation", label, err)
		}
	}
}

func TestListAPIKeysOmitsSecretMaterial(t *testing.T) {
	repo := memstorage.NewAPIKeyRepositoryMock()
	svc := NewAPIKeyService(repo, zap.NewNop())
	accountID := uuid.New()

	created, err := svc.CreateAPIKey(context.Background(), accountID, "first")
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}

	list, err := svc.ListAPIKeys(context.Background(), accountID)
	if err != nil {
		t.Fatalf("ListAPIKeys: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	if list[0].ID != created.ID || list[0].Suffix != created.Suffix {
		t.Errorf("listed item does not match created key: %+v", list[0])
	}

	// DTO only exposes metadata: a key shorter than a digest, with no
	// plaintext field at all.
	if len(list[0].Suffix) != 4 {
		t.Errorf("suffix length = %d, want 4", len(list[0].Suffix))
	}
}

func TestListAPIKeysScopedToAccount(t *testing.T) {
	repo := memstorage.NewAPIKeyRepositoryMock()
	svc := NewAPIKeyService(repo, zap.NewNop())

	owner := uuid.New()
	other := uuid.New()
	if _, err := svc.CreateAPIKey(context.Background(), owner, "mine"); err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}

	list, err := svc.ListAPIKeys(context.Background(), other)
	if err != nil {
		t.Fatalf("ListAPIKeys: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("other account sees %d keys, want 0", len(list))
	}
}

func TestRevokeAPIKeyDeletesOwnKey(t *testing.T) {
	repo := memstorage.NewAPIKeyRepositoryMock()
	svc := NewAPIKeyService(repo, zap.NewNop())
	accountID := uuid.New()

	created, err := svc.CreateAPIKey(context.Background(), accountID, "doomed")
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}

	if err := svc.RevokeAPIKey(context.Background(), created.ID, accountID); err != nil {
		t.Fatalf("RevokeAPIKey: %v", err)
	}
	if repo.Exists(created.ID) {
		t.Error("key still stored after revoke")
	}
}

func TestRevokeAPIKeyNotOwnedIsSilentNoop(t *testing.T) {
	repo := memstorage.NewAPIKeyRepositoryMock()
	svc := NewAPIKeyService(repo, zap.NewNop())

	owner := uuid.New()
	created, err := svc.CreateAPIKey(context.Background(), owner, "victim")
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}

	// A different account revoking the same id gets the same success
	// response as revoking a nonexistent id, and the key survives.
	if err := svc.RevokeAPIKey(context.Background(), created.ID, uuid.New()); err != nil {
		t.Fatalf("RevokeAPIKey by non-owner: %v", err)
	}
	if err := svc.RevokeAPIKey(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("RevokeAPIKey of random id: %v", err)
	}
	if !repo.Exists(created.ID) {
		t.Error("key deleted by a non-owner revoke")
	}
}
