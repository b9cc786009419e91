// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

const (
	// DefaultPage is the page number used when none (or an invalid one) is supplied.
	DefaultPage = 1
	// DefaultPageSize is the page size used when none (or an invalid one) is supplied.
	DefaultPageSize = 20
	// MaxPageSize caps the number of items a single page may return.
	MaxPageSize = 100
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageParams carries the requested page number and size. Zero values are not
// meaningful; obtain instances via NewPageParams (or Normalize an existing one).
type PageParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageParams parses raw page/page_size strings (typically query params)
// into bounded PageParams. Out-of-range and unparseable values fall back to
// the defaults rather than erroring; callers that care can log the raw input.
func NewPageParams(rawPage, rawPageSize string) PageParams {
	return PageParams{
		Page:     AtoiDefault(rawPage, DefaultPage),
		PageSize: AtoiDefault(rawPageSize, DefaultPageSize),
	}.Normalize()
}

// Normalize clamps the params to valid ranges: page >= 1 and
// 1 <= pageSize <= MaxPageSize, replacing invalid values with defaults.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the zero-based item offset of the requested page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination is the metadata block attached to every paginated response.
// TotalPages is ceil(total/pageSize) and is zero when total is zero.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page is a single page of items plus its pagination metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPage wraps an already-sliced set of items with pagination metadata
// computed from the total count and the requested params.
func NewPage[T any](items []T, total int64, p PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	var totalPages int
	if total > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:       p.Page,
			PageSize:   p.PageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Paginate slices a pre-fetched full set in memory and wraps the result.
// Persistence-side slicing (offset/limit in the query) is preferred; this
// exists for callers that already hold the complete collection.
func Paginate[T any](all []T, total int64, p PageParams) Page[T] {
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return NewPage(all[start:end], total, p)
}
