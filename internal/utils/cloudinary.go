// Package utils holds the Cloudinary-backed file storage used for
// registration attachments and post media.
package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"sklink/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
	ErrUploadFailed       = errors.New("file upload failed")
	ErrDeleteFailed       = errors.New("file deletion failed")
)

// allowedContentTypes lists what residents may attach: photos of documents
// and scanned PDFs.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// StorageConfig tunes upload behavior.
type StorageConfig struct {
	MaxFileSize   int64
	UploadTimeout time.Duration
	DeleteTimeout time.Duration
	MaxRetries    int
}

// DefaultStorageConfig returns the production defaults.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		MaxFileSize:   10 << 20,
		UploadTimeout: 60 * time.Second,
		DeleteTimeout: 15 * time.Second,
		MaxRetries:    3,
	}
}

// UploadResult describes one stored file.
type UploadResult struct {
	URL      string
	PublicID string
	Format   string
	Size     int64
}

// FileStorage is the external object-store contract.
type FileStorage interface {
	Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStorage stores files in Cloudinary.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	config StorageConfig
	logger *zap.Logger
}

// NewCloudinaryStorage creates the storage client from credentials.
func NewCloudinaryStorage(cfg config.CloudinaryConfig, logger *zap.Logger) (*CloudinaryStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}

	storage := DefaultStorageConfig()
	if cfg.MaxFileSize > 0 {
		storage.MaxFileSize = cfg.MaxFileSize
	}

	return &CloudinaryStorage{
		client: client,
		config: storage,
		logger: logger,
	}, nil
}

// Upload validates the file and pushes it with exponential-backoff retries.
// Only the secure URL and public id are returned for persistence.
func (s *CloudinaryStorage) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*UploadResult, error) {
	start := time.Now()

	if header.Size > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, header.Size)
	}

	contentType, err := detectContentType(file)
	if err != nil {
		return nil, err
	}
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, contentType)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "auto",
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		var opErr error
		result, opErr = s.client.Upload.Upload(ctx, file, params)
		return opErr
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.config.UploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(s.config.MaxRetries)),
		func(err error, d time.Duration) {
			s.logger.Warn("upload attempt failed",
				zap.String("filename", header.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrUploadFailed, s.config.MaxRetries, err)
	}

	s.logger.Info("file uploaded",
		zap.String("filename", header.Filename),
		zap.String("public_id", result.PublicID),
		zap.Int64("size", header.Size),
		zap.Duration("duration", time.Since(start)),
	)

	return &UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Size:     int64(result.Bytes),
	}, nil
}

// Delete removes a stored file by public id.
func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.DeleteTimeout)
	defer cancel()

	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		s.logger.Error("failed to delete file",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}

	s.logger.Info("file deleted", zap.String("public_id", publicID))
	return nil
}

func detectContentType(file multipart.File) (string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read file for content detection: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("reset file position: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])
	// DetectContentType appends charset parameters for text types.
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType, nil
}

func ptrBool(b bool) *bool {
	return &b
}
