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

type feedbackService struct {
	repo   repositories.FeedbackRepository
	logger *zap.Logger
}

// NewFeedbackService creates the feedback service.
func NewFeedbackService(repo repositories.FeedbackRepository, logger *zap.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: logger}
}

func (s *feedbackService) CreateForm(ctx context.Context, req *FeedbackFormRequest) (*models.FeedbackForm, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	form := &models.FeedbackForm{
		OfficialID:  req.OfficialID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.CreateForm(ctx, form); err != nil {
		return nil, NewInternalError(err)
	}
	return form, nil
}

func (s *feedbackService) GetForm(ctx context.Context, id int64) (*models.FeedbackForm, error) {
	form, err := s.repo.GetForm(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError("feedback form", nil)
		}
		return nil, NewInternalError(err)
	}
	return form, nil
}

func (s *feedbackService) ListForms(ctx context.Context, params models.PaginationParams) ([]*models.FeedbackForm, models.PaginationMeta, error) {
	forms, meta, err := s.repo.ListForms(ctx, params)
	if err != nil {
		return nil, models.PaginationMeta{}, NewInternalError(err)
	}
	return forms, meta, nil
}

func (s *feedbackService) UpdateForm(ctx context.Context, req *FeedbackFormRequest) (*models.FeedbackForm, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	form, err := s.GetForm(ctx, req.FormID)
	if err != nil {
		return nil, err
	}
	if form.OfficialID != req.OfficialID {
		return nil, NewForbiddenError("you can only edit your own forms")
	}

	form.Title = req.Title
	form.Description = req.Description
	if err := s.repo.UpdateForm(ctx, form); err != nil {
		return nil, NewInternalError(err)
	}
	return form, nil
}

func (s *feedbackService) DeleteForm(ctx context.Context, id, officialID int64) error {
	form, err := s.GetForm(ctx, id)
	if err != nil {
		return err
	}
	if form.OfficialID != officialID {
		return NewForbiddenError("you can only delete your own forms")
	}

	if err := s.repo.SoftDeleteForm(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("feedback form", nil)
		}
		return NewInternalError(err)
	}
	return nil
}

// Reply submits or re-submits a youth's reply; there is never more than one
// row per (form, youth).
func (s *feedbackService) Reply(ctx context.Context, req *FeedbackReplyRequest) (*models.FeedbackReply, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	if _, err := s.GetForm(ctx, req.FormID); err != nil {
		return nil, err
	}

	reply := &models.FeedbackReply{
		FormID:  req.FormID,
		YouthID: req.YouthID,
		Body:    req.Body,
	}
	if err := s.repo.UpsertReply(ctx, reply); err != nil {
		return nil, NewInternalError(err)
	}
	return reply, nil
}

func (s *feedbackService) ListReplies(ctx context.Context, formID int64) ([]*models.FeedbackReply, error) {
	if _, err := s.GetForm(ctx, formID); err != nil {
		return nil, err
	}

	replies, err := s.repo.ListReplies(ctx, formID)
	if err != nil {
		return nil, NewInternalError(err)
	}
	return replies, nil
}
