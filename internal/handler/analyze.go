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

type AnalyzeHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

func NewAnalyzeHandler(service *service.AnalysisService, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  logger.Named("AnalyzeHandler"),
	}
}

// Analyze runs a full analysis for a signed-in account and returns the
// complete result, unlike the restricted external route.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind analyze request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	result, err := h.service.AnalyzeForDashboard(c.Request.Context(), acc, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AnalyzeResponse{
		Success:  true,
		Analysis: result,
	})
}
