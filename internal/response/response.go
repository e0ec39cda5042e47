// Package response provides consistent JSON response writing for the API.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sklink/internal/contextutils"
	"sklink/internal/models"
	"sklink/internal/services"

	"go.uber.org/zap"
)

// APIResponse is the envelope every API handler writes.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Meta      *Meta        `json:"meta,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
}

// ErrorDetail carries error information in API responses.
type ErrorDetail struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Meta carries pagination metadata.
type Meta struct {
	Pagination *models.PaginationMeta `json:"pagination,omitempty"`
}

// Builder writes API responses with consistent structure and logging.
type Builder struct {
	logger  *zap.Logger
	version string
}

// NewBuilder creates a response builder.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{
		logger:  logger,
		version: "v1",
	}
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	resp.RequestID = contextutils.GetRequestID(r.Context())
	resp.Timestamp = time.Now().UTC()
	resp.Version = b.version

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("failed to encode response",
			zap.Error(err),
			zap.String("request_id", resp.RequestID),
			zap.String("path", r.URL.Path),
		)
	}
}

// WriteSuccess writes a 200 response with the given payload.
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.write(w, r, http.StatusOK, &APIResponse{Success: true, Data: data})
}

// WriteCreated writes a 201 response with the given payload.
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	b.write(w, r, http.StatusCreated, &APIResponse{Success: true, Data: data})
}

// WriteNoContent writes a 204 response with no body.
func (b *Builder) WriteNoContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Request-ID", contextutils.GetRequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// WritePaginated writes a 200 response with pagination metadata.
func (b *Builder) WritePaginated(w http.ResponseWriter, r *http.Request, data interface{}, pagination *models.PaginationMeta) {
	b.write(w, r, http.StatusOK, &APIResponse{
		Success: true,
		Data:    data,
		Meta:    &Meta{Pagination: pagination},
	})
}

// WriteError converts err to a service error and writes the matching status.
// Unknown error types are masked as internal errors.
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := services.GetServiceError(err)

	if svcErr.StatusCode >= http.StatusInternalServerError {
		b.logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)
	} else {
		b.logger.Debug("request rejected",
			zap.String("error_type", string(svcErr.Type)),
			zap.String("message", svcErr.Message),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
		)
	}

	detail := &ErrorDetail{
		Type:    string(svcErr.Type),
		Message: svcErr.Message,
		Code:    svcErr.Code,
	}
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		detail.Details = validationErr.Fields
	}

	b.write(w, r, svcErr.StatusCode, &APIResponse{Success: false, Error: detail})
}

// WriteBadRequest writes a 400 response with the given message.
func (b *Builder) WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewValidationError(message, nil))
}

// WriteUnauthorized writes a 401 response with the given message.
func (b *Builder) WriteUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewUnauthorizedError(message))
}

// WriteForbidden writes a 403 response with the given message.
func (b *Builder) WriteForbidden(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewForbiddenError(message))
}

// WriteNotFound writes a 404 response for the named resource.
func (b *Builder) WriteNotFound(w http.ResponseWriter, r *http.Request, resource string) {
	b.WriteError(w, r, services.NewNotFoundError(resource, nil))
}

// WriteConflict writes a 409 response with the given message.
func (b *Builder) WriteConflict(w http.ResponseWriter, r *http.Request, message string) {
	b.WriteError(w, r, services.NewConflictError(message, nil))
}
