package services

import (
	"context"
	"errors"
	"mime/multipart"

	"sklink/internal/utils"

	"go.uber.org/zap"
)

type fileService struct {
	storage utils.FileStorage
	logger  *zap.Logger
}

// NewFileService wraps the external file storage with service-level errors.
func NewFileService(storage utils.FileStorage, logger *zap.Logger) FileService {
	return &fileService{storage: storage, logger: logger}
}

func (s *fileService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error) {
	result, err := s.storage.Upload(ctx, file, header, folder)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrFileTooLarge),
			errors.Is(err, utils.ErrFileTypeNotAllowed):
			return nil, NewValidationError(err.Error(), err)
		default:
			return nil, NewInternalError(err)
		}
	}

	return &UploadResult{
		URL:      result.URL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     result.Size,
	}, nil
}

func (s *fileService) Delete(ctx context.Context, publicID string) error {
	if err := s.storage.Delete(ctx, publicID); err != nil {
		return NewInternalError(err)
	}
	return nil
}
