package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/postlens/post-analyzer-api/internal/domain/account"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"go.uber.org/zap"
)

const accountContextKey = "sessionAccount"

// AuthMiddleware guards the dashboard routes. It verifies the presented
// identity-provider token and resolves (or creates on first sign-in) the
// owning account, which is then passed explicitly to handlers.
func AuthMiddleware(authService *service.AuthService, accountRepo account.Repository, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			_ = c.Error(fmt.Errorf("%w: authorization header required", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			_ = c.Error(fmt.Errorf("%w: invalid authorization header format", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		if tokenString == "" {
			_ = c.Error(fmt.Errorf("%w: token missing", ierr.ErrUnauthorized))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			log.Warn("Token validation failed", zap.Error(err))
			_ = c.Error(err)
			c.Abort()
			return
		}

		acc, err := accountRepo.GetOrCreate(c.Request.Context(), account.Profile{
			GoogleID:  claims.Subject,
			Email:     claims.Email,
			Name:      claims.Name,
			AvatarURL: claims.Picture,
		})
		if err != nil {
			log.Error("Failed to resolve account for session", zap.String("email", claims.Email), zap.Error(err))
			_ = c.Error(fmt.Errorf("%w: account resolution failed", ierr.ErrInternalServer))
			c.Abort()
			return
		}

		c.Set(accountContextKey, acc)
		c.Next()
	}
}

// GetSessionAccount returns the account resolved by AuthMiddleware, or nil
// on routes it does not guard.
func GetSessionAccount(c *gin.Context) *account.Account {
	value, exists := c.Get(accountContextKey)
	if !exists {
		return nil
	}
	acc, ok := value.(*account.Account)
	if !ok {
		return nil
	}
	return acc
}
