package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/postlens/post-analyzer-api/internal/domain/analysis"
	"github.com/postlens/post-analyzer-api/internal/domain/apikey"
	"github.com/postlens/post-analyzer-api/internal/domain/usage"
	"github.com/postlens/post-analyzer-api/internal/handler/dto"
	"go.uber.org/zap"
)

type DashboardService struct {
	keyRepo      apikey.Repository
	usageRepo    usage.Repository
	analysisRepo analysis.Repository
	logger       *zap.Logger
}

func NewDashboardService(keyRepo apikey.Repository, usageRepo usage.Repository, analysisRepo analysis.Repository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		keyRepo:      keyRepo,
		usageRepo:    usageRepo,
		analysisRepo: analysisRepo,
		logger:       logger.Named("DashboardService"),
	}
}

func (s *DashboardService) GetSummary(ctx context.Context, accountID uuid.UUID) (*dto.DashboardSummaryResponse, error) {
	keys, err := s.keyRepo.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("repository error listing keys: %w", err)
	}

	var usageDay, usageHour int
	for _, key := range keys {
		day, err := s.usageRepo.CountSince(ctx, key.ID, 24*time.Hour)
		if err != nil {
			return nil, fmt.Errorf("repository error counting usage: %w", err)
		}
		hour, err := s.usageRepo.CountSince(ctx, key.ID, time.Hour)
		if err != nil {
			return nil, fmt.Errorf("repository error counting usage: %w", err)
		}
		usageDay += day
		usageHour += hour
	}

	analyses, err := s.analysisRepo.ListForAccount(ctx, accountID, 100)
	if err != nil {
		return nil, fmt.Errorf("repository error listing analyses: %w", err)
	}

	return &dto.DashboardSummaryResponse{
		KeyCount:      len(keys),
		AnalysisCount: len(analyses),
		UsageLastDay:  usageDay,
		UsageLastHour: usageHour,
	}, nil
}
