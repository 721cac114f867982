package book

import (
	"errors"
	"time"
)

const (
	StatusToRead   = "To Read"
	StatusReading  = "Reading"
	StatusFinished = "Finished"
)

var (
	ErrNotFound  = errors.New("book not found")
	ErrForbidden = errors.New("book belongs to another user")
	ErrInvalidID = errors.New("invalid book ID")

	ErrTitleRequired  = &ValidationError{Field: "title", Message: "Title is required"}
	ErrAuthorRequired = &ValidationError{Field: "author", Message: "Author is required"}
	ErrInvalidStatus  = &ValidationError{Field: "status", Message: "Invalid status. Must be: To Read, Reading, or Finished"}
	ErrInvalidISBN    = &ValidationError{Field: "isbn", Message: "ISBN must be a valid ISBN-10 or ISBN-13"}
)

// ValidationError is a client mistake whose Message is shown verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Book is one entry on a user's reading list.
type Book struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      *string   `json:"isbn"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes"`
	CoverURL  *string   `json:"cover_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries caller-supplied fields for create and update. A nil Notes
// means the field was not sent.
type Input struct {
	Title    string
	Author   string
	ISBN     string
	Status   string
	Notes    *string
	CoverURL string
}

// Query selects one page of a user's books.
type Query struct {
	UserID string
	Status string
	Search string
	Limit  int
	Offset int
}

func ValidStatus(s string) bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}
