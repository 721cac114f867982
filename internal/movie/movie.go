package movie

import (
	"errors"
	"time"
)

const (
	StatusToWatch  = "To Watch"
	StatusWatching = "Watching"
	StatusWatched  = "Watched"

	MinRating = 0
	MaxRating = 10
)

var (
	ErrNotFound  = errors.New("movie not found")
	ErrForbidden = errors.New("movie belongs to another user")
	ErrInvalidID = errors.New("invalid movie ID")

	ErrTitleRequired = &ValidationError{Field: "title", Message: "Title is required"}
	ErrInvalidStatus = &ValidationError{Field: "status", Message: "Invalid status. Must be: To Watch, Watching, or Watched"}
	ErrInvalidRating = &ValidationError{Field: "rating", Message: "Rating must be between 0 and 10"}
)

// ValidationError is a client mistake whose Message is shown verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Movie struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Director    *string   `json:"director"`
	ReleaseYear *int      `json:"release_year"`
	Genre       *string   `json:"genre"`
	Runtime     *int      `json:"runtime"`
	TMDbID      *string   `json:"tmdb_id"`
	Status      string    `json:"status"`
	PosterURL   *string   `json:"poster_url"`
	Rating      *float64  `json:"rating"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch is a field that may be left out of an update. Set with a nil Value
// clears the stored value.
type Patch[T any] struct {
	Set   bool
	Value *T
}

func Value[T any](v T) Patch[T] { return Patch[T]{Set: true, Value: &v} }

type Input struct {
	Title       string
	Director    string
	ReleaseYear *int
	Genre       string
	Runtime     *int
	TMDbID      string
	Status      string
	PosterURL   string
	Rating      Patch[float64]
	Notes       Patch[string]
}

type Query struct {
	UserID string
	Status string
	Search string
	Limit  int
	Offset int
}

func ValidStatus(s string) bool {
	switch s {
	case StatusToWatch, StatusWatching, StatusWatched:
		return true
	}
	return false
}
