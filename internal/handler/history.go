package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"github.com/postlens/post-analyzer-api/internal/handler/middleware"
	"github.com/postlens/post-analyzer-api/internal/ierr"
	"go.uber.org/zap"
)

type HistoryHandler struct {
	repo   analysis.Repository
	logger *zap.Logger
}

func NewHistoryHandler(repo analysis.Repository, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		repo:   repo,
		logger: logger.Named("HistoryHandler"),
	}
}

func (h *HistoryHandler) List(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.repo.ListForAccount(c.Request.Context(), acc.ID, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	items := make([]*dto.AnalysisHistoryItem, len(records))
	for i, rec := range records {
		items[i] = historyItem(rec)
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *HistoryHandler) GetByID(c *gin.Context) {
	acc := middleware.GetSessionAccount(c)
	if acc == nil {
		_ = c.Error(ierr.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: invalid analysis id format", ierr.ErrValidation))
		return
	}

	rec, err := h.repo.FindByID(c.Request.Context(), id, acc.ID)
	if err != nil {
		if errors.Is(err, analysis.ErrNotFound) {
			_ = c.Error(ierr.ErrNotFound)
			return
		}
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": historyItem(rec)})
}

func historyItem(rec *analysis.Record) *dto.AnalysisHistoryItem {
	return &dto.AnalysisHistoryItem{
		ID:             rec.ID,
		ImageName:      rec.ImageName,
		ImageThumbnail: rec.ImageThumbnail,
		Analysis:       rec.AnalysisJSON,
		CreatedAt:      rec.CreatedAt,
	}
}
