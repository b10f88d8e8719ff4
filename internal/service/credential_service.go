package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/crypto"
	"github.com/postlens/post-analyzer-api/internal/domain/credential"
	"github.com/postlens/post-analyzer-api/internal/gemini"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

// CredentialService manages the account's upstream model key: validated on
// save with a probe call, encrypted at rest, decrypted only at the moment of
// an analysis call.
type CredentialService struct {
	repo      credential.Repository
	envelope  *crypto.Envelope
	generator gemini.Generator
	logger    *zap.Logger
}

func NewCredentialService(repo credential.Repository, envelope *crypto.Envelope, generator gemini.Generator, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		repo:      repo,
		envelope:  envelope,
		generator: generator,
		logger:    logger.Named("CredentialService"),
	}
}

func (s *CredentialService) Save(ctx context.Context, accountID uuid.UUID, apiKey string) (*dto.SaveCredentialResponse, error) {
	if err := s.generator.Probe(ctx, apiKey); err != nil {
		s.logger.Warn("Upstream credential probe failed", zap.String("account_id", accountID.String()), zap.Error(err))
		if errors.Is(err, ierr.ErrUpstreamInvalidAPIKey) {
			return nil, fmt.Errorf("%w: upstream rejected the api key", ierr.ErrValidation)
		}
		return nil, fmt.Errorf("%w: could not validate api key: %v", ierr.ErrInternalServer, err)
	}

	encrypted, err := s.envelope.Encrypt(apiKey)
	if err != nil {
		s.logger.Error("Failed to encrypt credential", zap.Error(err))
		return nil, fmt.Errorf("%w: encryption failed", ierr.ErrInternalServer)
	}

	cred := &credential.Credential{
		AccountID:    accountID,
		Provider:     credential.ProviderGemini,
		KeyEncrypted: encrypted,
		IsValid:      true,
	}
	if err := s.repo.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("repository error saving credential: %w", err)
	}

	s.logger.Info("Upstream credential saved", zap.String("account_id", accountID.String()))
	return &dto.SaveCredentialResponse{
		Success:   true,
		IsValid:   true,
		MaskedKey: maskKey(apiKey),
	}, nil
}

func (s *CredentialService) Status(ctx context.Context, accountID uuid.UUID) (*dto.CredentialStatusResponse, error) {
	cred, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return &dto.CredentialStatusResponse{}, nil
		}
		return nil, fmt.Errorf("repository error fetching credential: %w", err)
	}

	plaintext, err := s.envelope.Decrypt(cred.KeyEncrypted)
	if err != nil {
		s.logger.Error("Failed to decrypt stored credential", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: stored credential is unreadable", ierr.ErrInternalServer)
	}

	masked := maskKey(plaintext)
	return &dto.CredentialStatusResponse{
		HasCredential: true,
		IsValid:       cred.IsValid,
		LastUpdated:   &cred.UpdatedAt,
		MaskedKey:     &masked,
	}, nil
}

func (s *CredentialService) Delete(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("repository error deleting credential: %w", err)
	}
	s.logger.Info("Upstream credential deleted", zap.String("account_id", accountID.String()))
	return nil
}

// ResolveKey returns the decrypted upstream key for an account, or
// ErrNoUpstreamCredential when the account is unprovisioned.
func (s *CredentialService) ResolveKey(ctx context.Context, accountID uuid.UUID) (string, error) {
	cred, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return "", ierr.ErrNoUpstreamCredential
		}
		return "", fmt.Errorf("repository error fetching credential: %w", err)
	}

	plaintext, err := s.envelope.Decrypt(cred.KeyEncrypted)
	if err != nil {
		s.logger.Error("Failed to decrypt stored credential", zap.String("account_id", accountID.String()), zap.Error(err))
		return "", fmt.Errorf("%w: stored credential is unreadable", ierr.ErrInternalServer)
	}
	return plaintext, nil
}

func maskKey(plaintext string) string {
	tail := plaintext
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return "••••••••" + tail
}
