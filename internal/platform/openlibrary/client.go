// Package openlibrary is a small rate-limited client for the Open Library
// books and search APIs.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when Open Library has no record for a lookup.
var ErrNotFound = errors.New("openlibrary: not found")

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(baseURL, userAgent string, rps float64, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

type Named struct {
	Name string `json:"name"`
}

// Edition matches one entry of api/books?jscmd=data.
type Edition struct {
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle"`
	Authors       []Named `json:"authors"`
	Publishers    []Named `json:"publishers"`
	PublishDate   string  `json:"publish_date"`
	NumberOfPages int     `json:"number_of_pages"`
	Cover         struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
	} `json:"cover"`
	Identifiers struct {
		ISBN10 []string `json:"isbn_10"`
		ISBN13 []string `json:"isbn_13"`
	} `json:"identifiers"`
	Notes    Text `json:"notes"`
	Excerpts []struct {
		Text string `json:"text"`
	} `json:"excerpts"`
}

// Doc matches one entry of search.json.
type Doc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorNames         []string `json:"author_name"`
	ISBN                []string `json:"isbn"`
	Publishers          []string `json:"publisher"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	CoverID             int      `json:"cover_i"`
}

type searchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

// Text decodes fields that are either a plain string or {"type", "value"}.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(b, &typed); err != nil {
		return err
	}
	*t = Text(typed.Value)
	return nil
}

// CoverURL returns the large cover image for a search result's cover id.
func CoverURL(id int) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", id)
}

// GetByISBN fetches edition data for a single ISBN.
func (c *Client) GetByISBN(ctx context.Context, isbn string) (*Edition, error) {
	key := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json", c.baseURL, url.QueryEscape(key))

	var res map[string]Edition
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	ed, ok := res[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &ed, nil
}

// Search returns the best search.json match for title and author.
func (c *Client) Search(ctx context.Context, title, author string) (*Doc, error) {
	q := url.Values{}
	if title != "" {
		q.Set("title", title)
	}
	if author != "" {
		q.Set("author", author)
	}
	q.Set("limit", "1")
	q.Set("fields", "key,title,author_name,isbn,publisher,first_publish_year,number_of_pages_median,cover_i")

	var res searchResponse
	if err := c.get(ctx, c.baseURL+"/search.json?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	if len(res.Docs) == 0 {
		return nil, ErrNotFound
	}
	return &res.Docs[0], nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// 1s, 2s, 4s...
			backoff := c.backoff << uint(i-1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target any) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}
