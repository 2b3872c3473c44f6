// file: internal/response/pagination.go
package response

import (
	"net/http"
	"strconv"

	"campushire/internal/models"
	"campushire/internal/services"
)

// DefaultPageSize applies when the client omits the limit parameter.
const DefaultPageSize = 20

// ParsePagination reads page, limit, sort and order query parameters. Pages
// are 1-indexed; malformed or non-positive values are rejected here and the
// repository layer enforces the hard cap on limit.
func ParsePagination(r *http.Request) (models.PaginationParams, error) {
	q := r.URL.Query()

	params := models.PaginationParams{
		Page:  1,
		Limit: DefaultPageSize,
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
	}

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return params, services.NewValidationError("page must be a positive integer", nil)
		}
		params.Page = v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return params, services.NewValidationError("limit must be a positive integer", nil)
		}
		params.Limit = v
	}

	return params, nil
}
