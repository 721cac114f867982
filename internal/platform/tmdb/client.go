// Package tmdb is a client for The Movie Database v3 API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"mediatracker/internal/logging"
)

// ImageBaseURL prefixes poster_path values.
const ImageBaseURL = "https://image.tmdb.org/t/p/w500"

var ErrNotFound = errors.New("tmdb: not found")

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	cb         *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(baseURL, apiKey string, rps float64, maxRetries int) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return c
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Movie matches /movie/{id}?append_to_response=credits.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
	Runtime     int    `json:"runtime"`
	PosterPath  string `json:"poster_path"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Crew []CrewMember `json:"crew"`
	} `json:"credits"`
}

// Director returns the first crew member credited as Director.
func (m *Movie) Director() string {
	for _, p := range m.Credits.Crew {
		if p.Job == "Director" {
			return p.Name
		}
	}
	return ""
}

type SearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// SearchMovie returns the top result for query.
func (c *Client) SearchMovie(ctx context.Context, query string) (*SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")

	var res struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.get(ctx, "/search/movie", q, &res); err != nil {
		return nil, err
	}
	if len(res.Results) == 0 {
		return nil, ErrNotFound
	}
	return &res.Results[0], nil
}

// GetMovie fetches details and credits for a TMDb id.
func (c *Client) GetMovie(ctx context.Context, id string) (*Movie, error) {
	q := url.Values{}
	q.Set("append_to_response", "credits")

	var m Movie
	if err := c.get(ctx, "/movie/"+url.PathEscape(id), q, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, target any) error {
	q.Set("api_key", c.apiKey)
	u := c.baseURL + path + "?" + q.Encode()

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.fetch(ctx, u)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff << uint(i-1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, u)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redactKey(uerr.URL)
		}
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	return body, false, err
}

// redactKey masks the api_key query parameter so transport errors can be
// logged.
func redactKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
