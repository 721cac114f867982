// Package bookinfo looks up book metadata from Open Library so the client can
// prefill a new book.
package bookinfo

import (
	"context"
	"errors"

	"mediatracker/internal/platform/openlibrary"
)

var (
	ErrEmptyQuery  = errors.New("no isbn, title or author supplied")
	ErrInvalidISBN = errors.New("not a valid ISBN")
	ErrNotFound    = errors.New("book not found")
)

type Query struct {
	ISBN   string
	Title  string
	Author string
}

type Info struct {
	Source        string `json:"source"`
	ISBN          string `json:"isbn,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Source is the upstream catalogue. *openlibrary.Client satisfies it.
type Source interface {
	GetByISBN(ctx context.Context, isbn string) (*openlibrary.Edition, error)
	Search(ctx context.Context, title, author string) (*openlibrary.Doc, error)
}
