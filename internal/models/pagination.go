// file: internal/models/pagination.go
package models

// PaginationParams represents pagination parameters for list queries.
// Page is 1-indexed; Limit is clamped by the repository layer.
type PaginationParams struct {
	Page  int    `json:"page" validate:"min=1"`
	Limit int    `json:"limit" validate:"min=1,max=100"`
	Sort  string `json:"sort,omitempty"`
	Order string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Offset converts the 1-indexed page to a row offset.
func (p PaginationParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

// PaginatedResponse represents a paginated API payload.
type PaginatedResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
	Filters    map[string]any `json:"filters,omitempty"`
}

// PaginationMeta contains pagination metadata. TotalPages is 0 when
// TotalItems is 0; a page beyond TotalPages yields an empty item list with
// this metadata intact, never an error.
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// NewPaginationMeta derives page metadata from a total row count.
func NewPaginationMeta(params PaginationParams, total int64) PaginationMeta {
	page := params.Page
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return PaginationMeta{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: params.Limit,
		HasNext:      page < totalPages,
		HasPrev:      page > 1 && total > 0,
	}
}
