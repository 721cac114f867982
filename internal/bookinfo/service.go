package bookinfo

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"mediatracker/internal/isbn"
	"mediatracker/internal/logging"
	"mediatracker/internal/platform/cache"
	"mediatracker/internal/platform/openlibrary"
)

const source = "openlibrary"

type Service struct {
	source Source
	cache  *cache.Cache[Info]
}

func NewService(src Source, c *cache.Cache[Info]) *Service {
	return &Service{source: src, cache: c}
}

// Lookup resolves q by ISBN when one is given, otherwise by title and author.
func (s *Service) Lookup(ctx context.Context, q Query) (Info, error) {
	q.ISBN = strings.TrimSpace(q.ISBN)
	q.Title = strings.TrimSpace(q.Title)
	q.Author = strings.TrimSpace(q.Author)

	if q.ISBN == "" && q.Title == "" && q.Author == "" {
		return Info{}, ErrEmptyQuery
	}

	if q.ISBN != "" {
		isbn13, ok := isbn.ToISBN13(q.ISBN)
		if !ok {
			return Info{}, ErrInvalidISBN
		}
		return s.cache.Do(ctx, "isbn:"+isbn13, func(ctx context.Context) (Info, error) {
			return s.byISBN(ctx, isbn.Normalize(q.ISBN), isbn13)
		})
	}

	key := "q:" + strings.ToLower(q.Title) + "|" + strings.ToLower(q.Author)
	return s.cache.Do(ctx, key, func(ctx context.Context) (Info, error) {
		return s.bySearch(ctx, q.Title, q.Author)
	})
}

// byISBN queries with the caller's form of the code but always reports the
// ISBN-13, so both forms share one cached result.
func (s *Service) byISBN(ctx context.Context, code, isbn13 string) (Info, error) {
	ed, err := s.source.GetByISBN(ctx, strings.ToUpper(code))
	if err != nil {
		return Info{}, upstream(err)
	}
	info := fromEdition(ed)
	info.ISBN = isbn13
	return info, nil
}

// bySearch takes the first search hit and, when it carries a usable ISBN,
// enriches it with that edition's details.
func (s *Service) bySearch(ctx context.Context, title, author string) (Info, error) {
	doc, err := s.source.Search(ctx, title, author)
	if err != nil {
		return Info{}, upstream(err)
	}

	info := fromDoc(doc)
	if info.ISBN == "" {
		return info, nil
	}

	ed, err := s.source.GetByISBN(ctx, info.ISBN)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("isbn", info.ISBN).Msg("edition details unavailable, using search result")
		return info, nil
	}
	return merge(info, fromEdition(ed)), nil
}

func upstream(err error) error {
	if errors.Is(err, openlibrary.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func fromEdition(ed *openlibrary.Edition) Info {
	info := Info{
		Source:        source,
		Title:         ed.Title,
		PublishedDate: ed.PublishDate,
		PageCount:     ed.NumberOfPages,
		CoverURL:      ed.Cover.Large,
		Description:   string(ed.Notes),
	}
	if ed.Subtitle != "" {
		info.Title += ": " + ed.Subtitle
	}
	if info.CoverURL == "" {
		info.CoverURL = ed.Cover.Medium
	}
	if info.Description == "" && len(ed.Excerpts) > 0 {
		info.Description = ed.Excerpts[0].Text
	}

	names := make([]string, 0, len(ed.Authors))
	for _, a := range ed.Authors {
		names = append(names, a.Name)
	}
	info.Author = strings.Join(names, ", ")
	if len(ed.Publishers) > 0 {
		info.Publisher = ed.Publishers[0].Name
	}

	switch {
	case len(ed.Identifiers.ISBN13) > 0:
		info.ISBN = ed.Identifiers.ISBN13[0]
	case len(ed.Identifiers.ISBN10) > 0:
		info.ISBN = ed.Identifiers.ISBN10[0]
	}
	return info
}

func fromDoc(doc *openlibrary.Doc) Info {
	info := Info{
		Source:    source,
		Title:     doc.Title,
		Author:    strings.Join(doc.AuthorNames, ", "),
		PageCount: doc.NumberOfPagesMedian,
		CoverURL:  openlibrary.CoverURL(doc.CoverID),
	}
	if len(doc.Publishers) > 0 {
		info.Publisher = doc.Publishers[0]
	}
	if doc.FirstPublishYear > 0 {
		info.PublishedDate = strconv.Itoa(doc.FirstPublishYear)
	}
	for _, code := range doc.ISBN {
		if isbn13, ok := isbn.ToISBN13(code); ok {
			info.ISBN = isbn13
			break
		}
	}
	return info
}

// merge prefers edition values and falls back to the search result.
func merge(base, ed Info) Info {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	out := base
	out.Title = pick(ed.Title, base.Title)
	out.Author = pick(ed.Author, base.Author)
	out.Publisher = pick(ed.Publisher, base.Publisher)
	out.PublishedDate = pick(ed.PublishedDate, base.PublishedDate)
	out.CoverURL = pick(ed.CoverURL, base.CoverURL)
	out.Description = pick(ed.Description, base.Description)
	if ed.PageCount > 0 {
		out.PageCount = ed.PageCount
	}
	return out
}
