package response

import (
	"net/http"
	"strconv"

	"sklink/internal/models"
)

// ParsePagination reads page, limit, sort and order query parameters and
// returns normalized pagination params. The page parameter is converted to
// an offset so repositories only deal with limit/offset.
func ParsePagination(r *http.Request, allowedSortFields ...string) models.PaginationParams {
	q := r.URL.Query()

	params := models.PaginationParams{
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	params.Normalize()

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		params.Offset = (page - 1) * params.Limit
	}

	if len(allowedSortFields) > 0 && !contains(allowedSortFields, params.Sort) {
		params.Sort = allowedSortFields[0]
	}
	return params
}

// BuildPaginationMeta computes pagination metadata for a result set.
func BuildPaginationMeta(params models.PaginationParams, total int64) *models.PaginationMeta {
	totalPages := int(total / int64(params.Limit))
	if total%int64(params.Limit) != 0 {
		totalPages++
	}
	currentPage := params.Offset/params.Limit + 1
	return &models.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
		HasNext:      currentPage < totalPages,
		HasPrev:      currentPage > 1,
	}
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
