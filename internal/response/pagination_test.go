package response

import (
	"net/http/httptest"
	"testing"

	"sklink/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/youths", nil)

	params := ParsePagination(r, "created_at", "username")

	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 0, params.Offset)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestParsePaginationPageToOffset(t *testing.T) {
	r := httptest.NewRequest("GET", "/youths?page=3&limit=10", nil)

	params := ParsePagination(r, "created_at")

	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 20, params.Offset)
}

func TestParsePaginationClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/youths?limit=5000", nil)

	params := ParsePagination(r, "created_at")

	assert.Equal(t, 100, params.Limit)
}

func TestParsePaginationRejectsUnknownSort(t *testing.T) {
	r := httptest.NewRequest("GET", "/youths?sort=password_hash&order=asc", nil)

	params := ParsePagination(r, "created_at", "username")

	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "asc", params.Order)
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := BuildPaginationMeta(models.PaginationParams{Limit: 10, Offset: 20}, 45)

	assert.Equal(t, 3, meta.CurrentPage)
	assert.Equal(t, 5, meta.TotalPages)
	assert.Equal(t, int64(45), meta.TotalItems)
	assert.Equal(t, 10, meta.ItemsPerPage)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestBuildPaginationMetaFirstPage(t *testing.T) {
	meta := BuildPaginationMeta(models.PaginationParams{Limit: 20, Offset: 0}, 20)

	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
