package puroks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sklink/internal/models"
	"sklink/internal/response"
	"sklink/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type purokServiceMock struct {
	services.PurokService
	puroks  []*models.Purok
	created *models.Purok
	getErr  error
}

func (m *purokServiceMock) Create(ctx context.Context, name string) (*models.Purok, error) {
	m.created = &models.Purok{ID: 1, Name: name}
	return m.created, nil
}

func (m *purokServiceMock) Get(ctx context.Context, id int64) (*models.Purok, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &models.Purok{ID: id, Name: "Purok Uno", TotalResidents: 12}, nil
}

func (m *purokServiceMock) List(ctx context.Context) ([]*models.Purok, error) {
	return m.puroks, nil
}

func newTestRouter(mock *purokServiceMock) http.Handler {
	logger := zap.NewNop()
	ctrl := NewController(&services.ServiceCollection{Purok: mock}, logger, response.NewBuilder(logger))

	r := chi.NewRouter()
	r.Get("/puroks", ctrl.List)
	r.Get("/puroks/{id}", ctrl.Get)
	r.Post("/puroks", ctrl.Create)
	return r
}

func TestGetPurok(t *testing.T) {
	router := newTestRouter(&purokServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/puroks/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool         `json:"success"`
		Data    models.Purok `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(7), body.Data.ID)
	assert.Equal(t, int64(12), body.Data.TotalResidents)
}

func TestGetPurokInvalidID(t *testing.T) {
	router := newTestRouter(&purokServiceMock{})

	req := httptest.NewRequest(http.MethodGet, "/puroks/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPurokNotFound(t *testing.T) {
	router := newTestRouter(&purokServiceMock{getErr: services.NewNotFoundError("purok", nil)})

	req := httptest.NewRequest(http.MethodGet, "/puroks/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePurok(t *testing.T) {
	mock := &purokServiceMock{}
	router := newTestRouter(mock)

	req := httptest.NewRequest(http.MethodPost, "/puroks", strings.NewReader(`{"name":"Purok Dos"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, "Purok Dos", mock.created.Name)
}

func TestCreatePurokBadBody(t *testing.T) {
	router := newTestRouter(&purokServiceMock{})

	req := httptest.NewRequest(http.MethodPost, "/puroks", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPuroks(t *testing.T) {
	router := newTestRouter(&purokServiceMock{puroks: []*models.Purok{
		{ID: 1, Name: "Purok Uno"},
		{ID: 2, Name: "Purok Dos"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/puroks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Purok Dos")
}
