package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"go.uber.org/zap"
)

type CredentialHandler struct {
	service *service.CredentialService
	logger  *zap.Logger
}

func NewCredentialHandler(service *service.CredentialService, logger *zap.Logger) *CredentialHandler {
	return &CredentialHandler{
		service: service,
		logger:  logger.Named("CredentialHandler"),
	}
}

func (h *CredentialHandler) Status(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	status, err := h.service.Status(c.Request.Context(), acc.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *CredentialHandler) Save(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	var req dto.SaveCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind save credential request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	resp, err := h.service.Save(c.Request.Context(), acc.ID, req.APIKey)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CredentialHandler) Delete(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), acc.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
