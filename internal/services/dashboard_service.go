package services

import (
	"context"
	"time"

	"sklink/internal/repositories"

	"go.uber.org/zap"
)

type dashboardService struct {
	youths repositories.YouthRepository
	logger *zap.Logger
}

// NewDashboardService creates the dashboard aggregation service.
func NewDashboardService(youths repositories.YouthRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{youths: youths, logger: logger}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	total, verified, unverified, deleted, err := s.youths.CountByStatus(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	byGender, err := s.youths.CountByGender(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	byPurok, err := s.youths.CountByPurok(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	bySKVoter, err := s.youths.CountBySKVoter(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	ageDist, err := s.youths.AgeDistribution(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}

	return &DashboardSummary{
		TotalYouths:     total,
		Verified:        verified,
		Unverified:      unverified,
		Deleted:         deleted,
		ByGender:        byGender,
		ByPurok:         byPurok,
		BySKVoter:       bySKVoter,
		AgeDistribution: ageDist,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}
