package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"github.com/postlens/post-analyzer-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.Named("DashboardHandler"),
	}
}

// GetSummary returns aggregated key and usage statistics for the signed-in
// account's dashboard.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), acc.ID)
	if err != nil {
		h.logger.Error("Failed to get dashboard summary", zap.Error(err))
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
