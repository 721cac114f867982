package book

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"mediatracker/internal/isbn"
)

// Service provides book-related business logic. Every operation is scoped to
// the calling user.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// optional trims s and maps blank to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// normalizeISBN validates raw and returns its canonical form, or nil when
// raw is blank.
func normalizeISBN(raw string) (*string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !isbn.IsValid(raw) {
		return nil, ErrInvalidISBN
	}
	n := strings.ToUpper(isbn.Normalize(raw))
	return &n, nil
}

func validateRequired(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Author) == "" {
		return ErrAuthorRequired
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Book, error) {
	if err := validateRequired(in); err != nil {
		return Book{}, err
	}

	status := in.Status
	if status == "" {
		status = StatusToRead
	}
	if !ValidStatus(status) {
		return Book{}, ErrInvalidStatus
	}

	normalized, err := normalizeISBN(in.ISBN)
	if err != nil {
		return Book{}, err
	}

	b := Book{
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		ISBN:     normalized,
		Status:   status,
		CoverURL: optional(in.CoverURL),
	}
	if in.Notes != nil {
		b.Notes = optional(*in.Notes)
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Get returns the book with id if userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, ErrInvalidID
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if b.UserID != userID {
		return Book{}, ErrForbidden
	}
	return b, nil
}

// Update replaces the editable fields of a book. An empty Status keeps the
// current one; a nil Notes keeps the current notes.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Book{}, ErrInvalidID
	}
	if err := validateRequired(in); err != nil {
		return Book{}, err
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		return Book{}, ErrInvalidStatus
	}
	normalized, err := normalizeISBN(in.ISBN)
	if err != nil {
		return Book{}, err
	}

	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return Book{}, err
	}

	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.ISBN = normalized
	b.CoverURL = optional(in.CoverURL)
	if in.Status != "" {
		b.Status = in.Status
	}
	if in.Notes != nil {
		b.Notes = optional(*in.Notes)
	}

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns a page of q.UserID's books, newest first. Status "all" is the
// same as no status filter.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	if q.Status == "all" {
		q.Status = ""
	}
	q.Search = strings.TrimSpace(q.Search)
	return s.repo.List(ctx, q)
}
