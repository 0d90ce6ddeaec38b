// Package pagination shapes the list envelope used by every catch-up read.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the page controls parsed from a list request.
type Params struct {
	Page  int
	Limit int
}

// ParseParams reads page/limit from query values, clamping to sane bounds.
// Absent or malformed values fall back to defaults rather than erroring; a
// list read should never 400 on a bad page number.
func ParseParams(q url.Values) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Page = n
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the envelope returned by paginated reads.
type Page[T any] struct {
	Items       []T `json:"items"`
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// NewPage wraps items with the derived page count. Items must already be the
// slice for the requested page.
func NewPage[T any](items []T, total int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: p.Page,
		Limit:       p.Limit,
	}
}
