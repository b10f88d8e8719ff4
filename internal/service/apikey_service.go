package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/util"
	"go.uber.org/zap"
)

type APIKeyService struct {
	repo   apikey.Repository
	logger *zap.Logger
}

func NewAPIKeyService(repo apikey.Repository, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{
		repo:   repo,
		logger: logger.Named("APIKeyService"),
	}
}

// CreateAPIKey mints a new key for the account. The returned response is the
// only place the plaintext ever appears.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, accountID uuid.UUID, label string) (*dto.CreateAPIKeyResponse, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: key name is required", ierr.ErrValidation)
	}

	plaintext, digest, suffix, err := util.GenerateAPIKey()
	if err != nil {
		s.logger.Error("Failed to generate api key material", zap.Error(err))
		return nil, fmt.Errorf("%w: failed generating key: %v", ierr.ErrInternalServer, err)
	}

	newKey := &apikey.APIKey{
		AccountID: accountID,
		Label:     label,
		Digest:    digest,
		Suffix:    suffix,
	}

	if _, err := s.repo.Create(ctx, newKey); err != nil {
		s.logger.Error("Failed to save new api key", zap.Error(err))
		return nil, fmt.Errorf("repository error creating api key: %w", err)
	}

	s.logger.Info("API key created",
		zap.String("id", newKey.ID.String()),
		zap.String("account_id", accountID.String()),
		zap.String("label", label),
	)

	return &dto.CreateAPIKeyResponse{
		ID:        newKey.ID,
		Label:     newKey.Label,
		Suffix:    newKey.Suffix,
		CreatedAt: newKey.CreatedAt,
		PlainKey:  plaintext,
	}, nil
}

func (s *APIKeyService) ListAPIKeys(ctx context.Context, accountID uuid.UUID) ([]*dto.APIKeyResponse, error) {
	keys, err := s.repo.ListForAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("Failed to list api keys", zap.String("account_id", accountID.String()), zap.Error(err))
		return nil, fmt.Errorf("repository error listing api keys: %w", err)
	}

	responses := make([]*dto.APIKeyResponse, len(keys))
	for i, key := range keys {
		responses[i] = &dto.APIKeyResponse{
			ID:        key.ID,
			Label:     key.Label,
			Suffix:    key.Suffix,
			CreatedAt: key.CreatedAt,
		}
	}
	return responses, nil
}

// RevokeAPIKey deletes the key if the account owns it. It reports success
// either way so callers cannot probe for keys owned by other accounts.
func (s *APIKeyService) RevokeAPIKey(ctx context.Context, id, accountID uuid.UUID) error {
	if err := s.repo.Revoke(ctx, id, accountID); err != nil {
		s.logger.Error("Failed to revoke api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("repository error revoking api key: %w", err)
	}
	s.logger.Info("API key revoke processed", zap.String("id", id.String()), zap.String("account_id", accountID.String()))
	return nil
}
