package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sklink/internal/contextutils"
	"sklink/internal/models"
	"sklink/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccessEnvelope(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("GET", "/puroks", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-123"))
	rec := httptest.NewRecorder()

	b.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-123", body["request_id"])
	assert.Equal(t, "v1", body["version"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestWriteErrorUsesServiceErrorStatus(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("GET", "/youths/9", nil)
	rec := httptest.NewRecorder()

	b.WriteError(rec, req, services.NewNotFoundError("youth", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errDetail["type"])
	assert.Equal(t, "youth not found", errDetail["message"])
}

func TestWriteErrorMasksUnknownErrors(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()

	b.WriteError(rec, req, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody(t, rec)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "INTERNAL_ERROR", errDetail["type"])
	assert.NotContains(t, errDetail["message"], assert.AnError.Error())
}

func TestWriteErrorIncludesValidationFields(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("POST", "/auth/register", nil)
	rec := httptest.NewRecorder()

	valErr := services.NewDetailedValidationError("invalid payload", []services.FieldError{
		{Field: "email", Message: "must be a valid email", Code: "email"},
	})
	b.WriteError(rec, req, valErr)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	errDetail := body["error"].(map[string]interface{})
	details := errDetail["details"].([]interface{})
	require.Len(t, details, 1)
	field := details[0].(map[string]interface{})
	assert.Equal(t, "email", field["field"])
}

func TestWritePaginatedIncludesMeta(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("GET", "/posts", nil)
	rec := httptest.NewRecorder()

	meta := BuildPaginationMeta(models.PaginationParams{Limit: 20}, 42)
	b.WritePaginated(rec, req, []string{"a", "b"}, meta)

	body := decodeBody(t, rec)
	pagination := body["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	assert.Equal(t, float64(42), pagination["total_items"])
}

func TestWriteNoContent(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	req := httptest.NewRequest("DELETE", "/puroks/1", nil)
	rec := httptest.NewRecorder()

	b.WriteNoContent(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
