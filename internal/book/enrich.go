package book

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"shelf/internal/collection"
	"shelf/internal/metrics"
	"shelf/internal/platform/breaker"
	"shelf/internal/platform/openlibrary"
)

const providerOpenLibrary = "openlibrary"

// OpenLibraryClient is the subset of the Open Library client used for lookups.
type OpenLibraryClient interface {
	GetBookByISBN(ctx context.Context, isbn string) (*openlibrary.BookDetails, error)
}

// Details is what an ISBN lookup knows about a book, already mapped onto the
// collection's field names.
type Details struct {
	ISBN        string   `json:"isbn"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Authors     []string `json:"authors"`
	Publishers  []string `json:"publishers"`
	PublishDate string   `json:"publish_date"`
	Year        *int     `json:"year"`
	Pages       int      `json:"number_of_pages,omitempty"`
	CoverURL    string   `json:"cover,omitempty"`
}

func (d Details) clone() Details {
	d.Authors = slices.Clone(d.Authors)
	d.Publishers = slices.Clone(d.Publishers)
	d.Year = collection.ClonePtr(d.Year)
	return d
}

// NewBook converts the lookup result into add input. The genre is left for
// the repository default since Open Library does not supply one.
func (d Details) NewBook() NewBook {
	return NewBook{
		Title:  d.Title,
		Author: d.Author,
		Genre:  DefaultGenre,
		Year:   d.Year,
		ISBN:   d.ISBN,
	}
}

// Enricher resolves ISBNs against Open Library.
type Enricher struct {
	client OpenLibraryClient
	cache  *gocache.Cache
	logger zerolog.Logger
}

func NewEnricher(client OpenLibraryClient, logger zerolog.Logger) *Enricher {
	return &Enricher{
		client: client,
		logger: logger.With().Str("component", "book_enricher").Logger(),
	}
}

// WithCache keeps successful lookups for ttl. A non-positive ttl leaves
// caching off and every Lookup issues a request.
func (e *Enricher) WithCache(ttl time.Duration) *Enricher {
	if ttl > 0 {
		e.cache = gocache.New(ttl, 2*ttl)
	}
	return e
}

// Lookup fetches the book for isbn. Any failure (timeout, bad status,
// malformed body, no match) is logged and reported as ok == false.
func (e *Enricher) Lookup(ctx context.Context, isbn string) (Details, bool) {
	isbn = strings.TrimSpace(isbn)
	if e.cache != nil {
		if d, ok := e.cache.Get(isbn); ok {
			e.logger.Debug().Str("isbn", isbn).Msg("book details served from cache")
			return d.(Details).clone(), true
		}
	}
	start := time.Now()

	raw, err := e.client.GetBookByISBN(ctx, isbn)
	if err != nil {
		result := "error"
		event := e.logger.Error()
		switch {
		case errors.Is(err, openlibrary.ErrNotFound):
			result = "not_found"
			event = e.logger.Warn()
		case breaker.Rejected(err):
			result = "rejected"
			event = e.logger.Warn()
		}
		metrics.RecordLookup(providerOpenLibrary, result, time.Since(start))
		event.Err(err).Str("isbn", isbn).Msg("no book details found")
		return Details{}, false
	}

	metrics.RecordLookup(providerOpenLibrary, "found", time.Since(start))
	e.logger.Info().Str("isbn", isbn).Msg("fetched book details")
	d := mapDetails(isbn, raw)
	if e.cache != nil {
		e.cache.SetDefault(isbn, d.clone())
	}
	return d, true
}

func mapDetails(isbn string, raw *openlibrary.BookDetails) Details {
	d := Details{
		ISBN:        isbn,
		Title:       raw.Title,
		Author:      "Unknown",
		PublishDate: raw.PublishDate,
		Year:        ParseYear(raw.PublishDate),
		Pages:       raw.NumberOfPages,
		CoverURL:    raw.Cover.Medium,
		Authors:     []string{},
		Publishers:  []string{},
	}
	if strings.TrimSpace(d.Title) == "" {
		d.Title = "Unknown"
	}
	if d.PublishDate == "" {
		d.PublishDate = "Unknown"
	}
	for _, a := range raw.Authors {
		d.Authors = append(d.Authors, a.Name)
	}
	for _, p := range raw.Publishers {
		d.Publishers = append(d.Publishers, p.Name)
	}
	if len(d.Authors) > 0 {
		d.Author = d.Authors[0]
	}
	return d
}

// ParseYear takes the last whitespace-separated token of a free-text publish
// date ("September 21, 1937", "1999") as the year. It returns nil when that
// token is not an integer.
func ParseYear(publishDate string) *int {
	fields := strings.Fields(publishDate)
	if len(fields) == 0 {
		return nil
	}
	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return nil
	}
	return &year
}
