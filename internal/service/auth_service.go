package service

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

// IdentityClaims is the subset of identity-provider claims the service needs
// to resolve an account.
type IdentityClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Subject       string `json:"sub"`
}

type AuthService struct {
	keySet   oidc.KeySet
	logger   *zap.Logger
	issuer   string
	clientID string
}

func NewAuthService(ctx context.Context, cfg *config.OIDCConfig, logger *zap.Logger) (*AuthService, error) {
	log := logger.Named("AuthService")
	if cfg.IssuerURL == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("OIDC IssuerURL and ClientID are required")
	}

	log.Info("Initializing OIDC provider", zap.String("issuer", cfg.IssuerURL))
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		log.Error("Failed to create OIDC provider", zap.String("issuer", cfg.IssuerURL), zap.Error(err))
		return nil, fmt.Errorf("oidc provider setup failed: %w", err)
	}

	var discoveryClaims struct {
		JWKSURI string `json:"jwks_uri"`
		Issuer  string `json:"issuer"`
	}
	if err := provider.Claims(&discoveryClaims); err != nil {
		log.Error("Failed to get discovery claims", zap.Error(err))
		return nil, fmt.Errorf("failed to get OIDC discovery claims: %w", err)
	}

	keySet := oidc.NewRemoteKeySet(ctx, discoveryClaims.JWKSURI)

	return &AuthService{
		keySet:   keySet,
		logger:   log,
		issuer:   discoveryClaims.Issuer,
		clientID: cfg.ClientID,
	}, nil
}

// ValidateToken verifies the presented ID token against the provider's key
// set and extracts the identity claims.
func (s *AuthService) ValidateToken(ctx context.Context, rawToken string) (*IdentityClaims, error) {
	verifier := oidc.NewVerifier(s.issuer, s.keySet, &oidc.Config{
		ClientID: s.clientID,
	})

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		s.logger.Warn("Failed to verify id token", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ierr.ErrInvalidToken, err)
	}

	var claims IdentityClaims
	if err := token.Claims(&claims); err != nil {
		s.logger.Error("Failed to extract claims from id token", zap.Error(err))
		return nil, fmt.Errorf("%w: could not unmarshal token claims: %v", ierr.ErrInvalidToken, err)
	}
	claims.Subject = token.Subject

	if claims.Email == "" || !claims.EmailVerified {
		return nil, fmt.Errorf("%w: token has no verified email", ierr.ErrInvalidToken)
	}

	s.logger.Debug("ID token validated", zap.String("subject", claims.Subject))
	return &claims, nil
}
