// Package movieinfo looks up film metadata on TMDb.
package movieinfo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"mediatracker/internal/platform/cache"
	"mediatracker/internal/platform/tmdb"
)

var (
	ErrEmptyQuery    = errors.New("no title or tmdb id supplied")
	ErrNotConfigured = errors.New("tmdb api key not configured")
	ErrNotFound      = errors.New("movie not found")
)

type Query struct {
	Title  string
	TMDbID string
}

type Info struct {
	Source      string `json:"source"`
	TMDbID      string `json:"tmdb_id"`
	Title       string `json:"title"`
	Director    string `json:"director,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Runtime     int    `json:"runtime,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Source is the upstream catalogue. *tmdb.Client satisfies it.
type Source interface {
	Configured() bool
	SearchMovie(ctx context.Context, query string) (*tmdb.SearchResult, error)
	GetMovie(ctx context.Context, id string) (*tmdb.Movie, error)
}

type Service struct {
	source Source
	cache  *cache.Cache[Info]
}

func NewService(src Source, c *cache.Cache[Info]) *Service {
	return &Service{source: src, cache: c}
}

// Lookup fetches by TMDb id when given, otherwise details of the top title match.
func (s *Service) Lookup(ctx context.Context, q Query) (Info, error) {
	q.Title = strings.TrimSpace(q.Title)
	q.TMDbID = strings.TrimSpace(q.TMDbID)

	if q.Title == "" && q.TMDbID == "" {
		return Info{}, ErrEmptyQuery
	}
	if !s.source.Configured() {
		return Info{}, ErrNotConfigured
	}

	if q.TMDbID != "" {
		return s.cache.Do(ctx, "id:"+q.TMDbID, func(ctx context.Context) (Info, error) {
			return s.byID(ctx, q.TMDbID)
		})
	}
	return s.cache.Do(ctx, "title:"+strings.ToLower(q.Title), func(ctx context.Context) (Info, error) {
		hit, err := s.source.SearchMovie(ctx, q.Title)
		if err != nil {
			return Info{}, upstream(err)
		}
		return s.byID(ctx, strconv.Itoa(hit.ID))
	})
}

func (s *Service) byID(ctx context.Context, id string) (Info, error) {
	m, err := s.source.GetMovie(ctx, id)
	if err != nil {
		return Info{}, upstream(err)
	}
	return fromMovie(m), nil
}

func upstream(err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func fromMovie(m *tmdb.Movie) Info {
	info := Info{
		Source:      "tmdb",
		TMDbID:      strconv.Itoa(m.ID),
		Title:       m.Title,
		Director:    m.Director(),
		Runtime:     m.Runtime,
		Description: m.Overview,
	}

	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	info.Genre = strings.Join(genres, ", ")

	if m.PosterPath != "" {
		info.PosterURL = tmdb.ImageBaseURL + m.PosterPath
	}
	if year, _, _ := strings.Cut(m.ReleaseDate, "-"); year != "" {
		info.ReleaseYear, _ = strconv.Atoi(year)
	}
	return info
}
