package httpx

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100_000
)

// Page is a 1-based page request read from ?page=&page_size=.
type Page struct {
	Number int
	Size   int
}

func (p Page) Limit() int  { return p.Size }
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Meta builds the pagination block returned alongside list data.
func (p Page) Meta(total int) map[string]any {
	return map[string]any{
		"page":        p.Number,
		"page_size":   p.Size,
		"total":       total,
		"total_pages": (total + p.Size - 1) / p.Size,
	}
}

// PageFrom reads pagination params, clamping out-of-range values to defaults.
func PageFrom(r *http.Request) Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	size, _ := strconv.Atoi(q.Get("page_size"))
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: page, Size: size}
}
