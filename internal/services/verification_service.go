package services

import (
	"context"
	"database/sql"
	"errors"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"go.uber.org/zap"
)

type verificationService struct {
	youths repositories.YouthRepository
	logger *zap.Logger
}

// NewVerificationService creates the verification workflow service.
func NewVerificationService(youths repositories.YouthRepository, logger *zap.Logger) VerificationService {
	return &verificationService{youths: youths, logger: logger}
}

func (s *verificationService) ListPending(ctx context.Context, params models.PaginationParams) ([]*models.Youth, models.PaginationMeta, error) {
	unverified := false
	youths, meta, err := s.youths.List(ctx, repositories.YouthListFilter{Verified: &unverified}, params)
	if err != nil {
		return nil, models.PaginationMeta{}, NewInternalError(err)
	}
	return youths, meta, nil
}

func (s *verificationService) GetDetail(ctx context.Context, id int64) (*models.Youth, error) {
	youth, err := s.youths.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("youth", nil)
		}
		return nil, NewInternalError(err)
	}
	return youth, nil
}

// Verify is idempotent-safe: the repository guard matches only unverified,
// non-deleted rows, so a repeat call reports not-found with no side effects.
func (s *verificationService) Verify(ctx context.Context, id int64) error {
	if err := s.youths.Verify(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("youth", nil)
		}
		return NewInternalError(err)
	}
	s.logger.Info("youth verified", zap.Int64("youth_id", id))
	return nil
}

func (s *verificationService) Remove(ctx context.Context, id int64) error {
	if err := s.youths.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("youth", nil)
		}
		return NewInternalError(err)
	}
	s.logger.Info("youth removed", zap.Int64("youth_id", id))
	return nil
}

// Restore only succeeds on a currently soft-deleted youth; a never-deleted
// or already-restored record reports not-found, never a false success.
func (s *verificationService) Restore(ctx context.Context, id int64) error {
	if err := s.youths.Restore(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("youth", nil)
		}
		return NewInternalError(err)
	}
	s.logger.Info("youth restored", zap.Int64("youth_id", id))
	return nil
}
