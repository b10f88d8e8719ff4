package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postlens/post-analyzer-api/internal/gemini"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"go.uber.org/zap"
)

// PublicAPIHandler serves the key-authenticated external analysis route.
// Error bodies use the documented {error} shape; the admission middleware
// has already handled authentication and the rate check by the time this
// runs.
type PublicAPIHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

func NewPublicAPIHandler(service *service.AnalysisService, logger *zap.Logger) *PublicAPIHandler {
	return &PublicAPIHandler{
		service: service,
		logger:  logger.Named("PublicAPIHandler"),
	}
}

func (h *PublicAPIHandler) Analyze(c *gin.Context) {
	ident, ok := middleware.GetAPIKeyIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Missing or invalid Bearer token."})
		return
	}

	var req dto.ExternalAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageBase64 == "" || req.MimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image data and mimeType are required."})
		return
	}

	result, err := h.service.AnalyzeExternal(c.Request.Context(), ident, gemini.InlineImage{
		MimeType: req.MimeType,
		Data:     req.ImageBase64,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExternalAnalyzeResponse{
		Success: true,
		Data:    *result,
	})
}

func (h *PublicAPIHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ierr.ErrNoUpstreamCredential):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Analysis failed. User has no Gemini API key configured."})
	case errors.Is(err, ierr.ErrUpstreamParseFailure):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse analysis results."})
	default:
		h.logger.Error("External analysis failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
