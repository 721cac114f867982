package movie

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func validRating(r *float64) bool {
	return r == nil || (*r >= MinRating && *r <= MaxRating)
}

// apply copies the always-replaced fields of in onto m.
func apply(m *Movie, in Input) {
	m.Title = strings.TrimSpace(in.Title)
	m.Director = optional(in.Director)
	m.ReleaseYear = in.ReleaseYear
	m.Genre = optional(in.Genre)
	m.Runtime = in.Runtime
	m.TMDbID = optional(in.TMDbID)
	m.PosterURL = optional(in.PosterURL)
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Movie, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Movie{}, ErrTitleRequired
	}
	status := in.Status
	if status == "" {
		status = StatusToWatch
	}
	if !ValidStatus(status) {
		return Movie{}, ErrInvalidStatus
	}
	if !validRating(in.Rating.Value) {
		return Movie{}, ErrInvalidRating
	}

	m := Movie{UserID: userID, Status: status, Rating: in.Rating.Value}
	apply(&m, in)
	if in.Notes.Value != nil {
		m.Notes = optional(*in.Notes.Value)
	}

	if err := s.repo.Create(ctx, &m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

// Get returns the movie with id if userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (Movie, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Movie{}, ErrInvalidID
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	if m.UserID != userID {
		return Movie{}, ErrForbidden
	}
	return m, nil
}

// Update replaces a movie's descriptive fields. Status, Rating and Notes are
// only touched when supplied.
func (s *Service) Update(ctx context.Context, userID, id string, in Input) (Movie, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Movie{}, ErrInvalidID
	}
	if strings.TrimSpace(in.Title) == "" {
		return Movie{}, ErrTitleRequired
	}
	if in.Status != "" && !ValidStatus(in.Status) {
		return Movie{}, ErrInvalidStatus
	}
	if !validRating(in.Rating.Value) {
		return Movie{}, ErrInvalidRating
	}

	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return Movie{}, err
	}

	apply(&m, in)
	if in.Status != "" {
		m.Status = in.Status
	}
	if in.Rating.Set {
		m.Rating = in.Rating.Value
	}
	if in.Notes.Set {
		m.Notes = nil
		if in.Notes.Value != nil {
			m.Notes = optional(*in.Notes.Value)
		}
	}

	if err := s.repo.Update(ctx, &m); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]Movie, int, error) {
	if q.Status == "all" {
		q.Status = ""
	}
	q.Search = strings.TrimSpace(q.Search)
	return s.repo.List(ctx, q)
}
