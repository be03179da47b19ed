package pagination

import (
	"encoding/json"
	"math"
)

const (
	// DefaultPageSize is used when no page size, or a non-positive one, is given.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows a single page can hold.
	MaxPageSize = 50
	// MaxPageNumber keeps the row offset of any page within int range.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Params holds 1-based page inputs from handlers or services.
type Params struct {
	PageNumber int `query:"page_number"`
	PageSize   int `query:"page_size"`
}

// Normalize returns params with defaults applied. Inputs are never rejected.
func (p Params) Normalize() Params {
	if p.PageNumber <= 0 {
		p.PageNumber = 1
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	p.PageSize = NormalizeSize(p.PageSize)
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.PageNumber - 1) * n.PageSize
}

// NormalizeSize enforces the default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// PagedResult is one page of items plus the metadata of the full result set.
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
}

// NewPagedResult fills in the metadata for items fetched with params.
func NewPagedResult[T any](items []T, totalCount int64, params Params) PagedResult[T] {
	p := params.Normalize()
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{
		Items:       items,
		TotalCount:  totalCount,
		CurrentPage: p.PageNumber,
		PageSize:    p.PageSize,
		TotalPages:  int(math.Ceil(float64(totalCount) / float64(p.PageSize))),
	}
}

// HasPreviousPage reports whether a page precedes the current one.
func (r PagedResult[T]) HasPreviousPage() bool {
	return r.CurrentPage > 1
}

// HasNextPage reports whether a page follows the current one.
func (r PagedResult[T]) HasNextPage() bool {
	return r.CurrentPage < r.TotalPages
}

// MarshalJSON adds the derived navigation flags to the encoded page.
func (r PagedResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items           []T   `json:"items"`
		TotalCount      int64 `json:"total_count"`
		CurrentPage     int   `json:"current_page"`
		PageSize        int   `json:"page_size"`
		TotalPages      int   `json:"total_pages"`
		HasPreviousPage bool  `json:"has_previous_page"`
		HasNextPage     bool  `json:"has_next_page"`
	}{
		Items:           r.Items,
		TotalCount:      r.TotalCount,
		CurrentPage:     r.CurrentPage,
		PageSize:        r.PageSize,
		TotalPages:      r.TotalPages,
		HasPreviousPage: r.HasPreviousPage(),
		HasNextPage:     r.HasNextPage(),
	})
}

// Map converts the items of a page while keeping its metadata.
func Map[T, U any](r PagedResult[T], fn func(T) U) PagedResult[U] {
	items := make([]U, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, fn(item))
	}
	return PagedResult[U]{
		Items:       items,
		TotalCount:  r.TotalCount,
		CurrentPage: r.CurrentPage,
		PageSize:    r.PageSize,
		TotalPages:  r.TotalPages,
	}
}
