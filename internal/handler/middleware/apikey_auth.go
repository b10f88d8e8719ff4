package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/postlens/post-analyzer-api/internal/config"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"github.com/postlens/post-analyzer-api/internal/metrics"
	"github.com/postlens/post-analyzer-api/internal/util"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "

	apiKeyIdentityContextKey = "apiKeyIdentity"
)

// APIKeyAuthMiddleware is the admission gate for the external API. It
// resolves the presented bearer token to a key identity and enforces the
// sliding-window rate ceiling before any upstream work happens. Responses
// use the external API's {error} shape directly.
//
// The window check and the later usage write are separate statements, so a
// burst of concurrent requests racing between them can transiently exceed
// the ceiling. That soft limit is deliberate; see DESIGN.md.
func APIKeyAuthMiddleware(keyRepo apikey.Repository, usageRepo usage.Repository, cfg *config.RateLimitConfig, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("APIKeyAuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
			metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeMissingCredential).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Missing or invalid Bearer token."})
			return
		}

		plainKey := strings.TrimPrefix(authHeader, bearerPrefix)
		if plainKey == "" {
			metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeMissingCredential).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Missing or invalid Bearer token."})
			return
		}

		digest := util.HashAPIKey(plainKey)
		ident, err := keyRepo.FindByDigest(c.Request.Context(), digest)
		if err != nil {
			if errors.Is(err, apikey.ErrNotFound) {
				log.Debug("Unknown api key presented")
				metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeInvalidCredential).Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key."})
				return
			}
			log.Error("Failed to resolve api key", zap.Error(err))
			metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeInternalError).Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		count, err := usageRepo.CountSince(c.Request.Context(), ident.KeyID, cfg.Window)
		if err != nil {
			log.Error("Failed to count usage for rate check", zap.String("key_id", ident.KeyID.String()), zap.Error(err))
			metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeInternalError).Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		if count >= cfg.Ceiling {
			log.Info("Rate ceiling reached",
				zap.String("key_id", ident.KeyID.String()),
				zap.Int("count", count),
				zap.Int("ceiling", cfg.Ceiling),
			)
			metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": fmt.Sprintf("Rate limit exceeded. Max %d requests per %.0fs.", cfg.Ceiling, cfg.Window.Seconds()),
			})
			return
		}

		metrics.ExternalRequestsTotal.WithLabelValues(metrics.OutcomeAdmitted).Inc()
		c.Set(apiKeyIdentityContextKey, *ident)
		c.Next()
	}
}

// GetAPIKeyIdentity returns the identity resolved by APIKeyAuthMiddleware.
func GetAPIKeyIdentity(c *gin.Context) (apikey.Identity, bool) {
	value, exists := c.Get(apiKeyIdentityContextKey)
	if !exists {
		return apikey.Identity{}, false
	}
	ident, ok := value.(apikey.Identity)
	return ident, ok
}
