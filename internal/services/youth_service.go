package services

import (
	"context"
	"database/sql"
	"errors"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"go.uber.org/zap"
)

type youthService struct {
	youths repositories.YouthRepository
	logger *zap.Logger
}

// NewYouthService creates the official-side youth listing service.
func NewYouthService(youths repositories.YouthRepository, logger *zap.Logger) YouthService {
	return &youthService{youths: youths, logger: logger}
}

// List returns verified youths. Deleted mode swaps in the soft-deleted set
// instead of mixing the two.
func (s *youthService) List(ctx context.Context, opts YouthListOptions, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error) {
	filter := repositories.YouthListFilter{
		Deleted: opts.Deleted,
		PurokID: opts.PurokID,
	}
	if !opts.Deleted {
		verified := true
		filter.Verified = &verified
	}

	youths, meta, err := s.youths.List(ctx, filter, params)
	if err != nil {
		return nil, models.PaginationMeta{}, NewInternalError(err)
	}
	return youths, meta, nil
}

func (s *youthService) GetDetail(ctx context.Context, id int64) (*models.Youth, error) {
	youth, err := s.youths.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("youth", nil)
		}
		return nil, NewInternalError(err)
	}
	return youth, nil
}
