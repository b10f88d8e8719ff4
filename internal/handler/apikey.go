package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"go.uber.org/zap"
)

type APIKeyHandler struct {
	service *service.APIKeyService
	logger  *zap.Logger
}

func NewAPIKeyHandler(service *service.APIKeyService, logger *zap.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		service: service,
		logger:  logger.Named("APIKeyHandler"),
	}
}

func (h *APIKeyHandler) Create(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind create api key request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	resp, err := h.service.CreateAPIKey(c.Request.Context(), acc.ID, req.Label)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "key": resp})
}

func (h *APIKeyHandler) List(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	keys, err := h.service.ListAPIKeys(c.Request.Context(), acc.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid UUID format for revoke api key", zap.String("id_param", idStr))
		_ = c.Error(fmt.Errorf("%w: invalid api key id format", ierr.ErrValidation))
		return
	}

	if err := h.service.RevokeAPIKey(c.Request.Context(), id, acc.ID); err != nil {
		_ = c.Error(err)
		return
	}

	// Success whether or not a row was removed; ownership of foreign keys
	// is never revealed.
	c.JSON(http.StatusOK, gin.H{"success": true})
}
