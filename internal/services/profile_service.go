package services

import (
	"context"
	"database/sql"
	"errors"

	"sklink/internal/models"
	"sklink/internal/repositories"
	"sklink/internal/validation"

	"go.uber.org/zap"
)

type profileService struct {
	officials repositories.OfficialRepository
	youths    repositories.YouthRepository
	logger    *zap.Logger
}

// NewProfileService creates the profile service.
func NewProfileService(
	officials repositories.OfficialRepository,
	youths repositories.YouthRepository,
	logger *zap.Logger,
) ProfileService {
	return &profileService{officials: officials, youths: youths, logger: logger}
}

// Get returns the authenticated principal's own record, shaped by kind.
func (s *profileService) Get(ctx context.Context, actor models.Actor) (interface{}, error) {
	switch actor.Kind {
	case models.ActorOfficial:
		official, err := s.officials.GetByID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, NewNotFoundError("official", nil)
			}
			return nil, NewInternalError(err)
		}
		return official, nil
	case models.ActorYouth:
		youth, err := s.youths.GetDetail(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, NewNotFoundError("youth", nil)
			}
			return nil, NewInternalError(err)
		}
		return youth, nil
	}
	return nil, NewUnauthorizedError("unknown principal kind")
}

func (s *profileService) UpdateOfficial(ctx context.Context, official *models.Official) error {
	if err := validation.ValidateStruct(official); err != nil {
		return NewValidationError(err.Error(), err)
	}
	if err := s.officials.Update(ctx, official); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("official", nil)
		}
		if IsUniqueViolation(err) {
			return NewDuplicateIdentifierError()
		}
		return NewInternalError(err)
	}
	return nil
}

func (s *profileService) AddYouthAttachment(ctx context.Context, youthID int64, att *models.YouthAttachment) error {
	att.YouthID = youthID
	if err := s.youths.AddAttachment(ctx, att); err != nil {
		return NewInternalError(err)
	}
	return nil
}
