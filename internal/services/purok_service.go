package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"sklink/internal/models"
	"sklink/internal/repositories"

	"go.uber.org/zap"
)

type purokService struct {
	puroks repositories.PurokRepository
	logger *zap.Logger
}

// NewPurokService creates the purok service.
func NewPurokService(puroks repositories.PurokRepository, logger *zap.Logger) PurokService {
	return &purokService{puroks: puroks, logger: logger}
}

func (s *purokService) Create(ctx context.Context, name string) (*models.Purok, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("purok name is required", nil)
	}

	purok := &models.Purok{Name: name}
	if err := s.puroks.Create(ctx, purok); err != nil {
		if IsUniqueViolation(err) {
			return nil, NewConflictError("a purok with that name already exists", nil)
		}
		return nil, NewInternalError(err)
	}
	return purok, nil
}

func (s *purokService) Get(ctx context.Context, id int64) (*models.Purok, error) {
	purok, err := s.puroks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("purok", nil)
		}
		return nil, NewInternalError(err)
	}
	return purok, nil
}

func (s *purokService) List(ctx context.Context) ([]*models.Purok, error) {
	puroks, err := s.puroks.List(ctx)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return puroks, nil
}

func (s *purokService) Update(ctx context.Context, id int64, name string) (*models.Purok, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("purok name is required", nil)
	}

	purok := &models.Purok{ID: id, Name: name}
	if err := s.puroks.Update(ctx, purok); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("purok", nil)
		}
		if IsUniqueViolation(err) {
			return nil, NewConflictError("a purok with that name already exists", nil)
		}
		return nil, NewInternalError(err)
	}
	return s.Get(ctx, id)
}

func (s *purokService) Delete(ctx context.Context, id int64) error {
	if err := s.puroks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("purok", nil)
		}
		return NewInternalError(err)
	}
	return nil
}
