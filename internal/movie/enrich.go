package movie

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"shelf/internal/collection"
	"shelf/internal/metrics"
	"shelf/internal/platform/breaker"
	"shelf/internal/platform/ghibli"
	"shelf/internal/platform/omdb"
)

const (
	providerGhibli = "ghibli"
	providerOMDB   = "omdb"

	// omdbFallbackRating stands in for an "N/A" IMDb rating.
	omdbFallbackRating = 7.0
)

type GhibliClient interface {
	FindFilm(ctx context.Context, title string) (*ghibli.Film, error)
}

type OMDBClient interface {
	Enabled() bool
	GetByTitle(ctx context.Context, title string) (*omdb.Movie, error)
}

// Details is what a title lookup knows about a movie.
type Details struct {
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Year        *int     `json:"year"`
	Rating      *float64 `json:"rating"`
	Director    string   `json:"director"`
	Description string   `json:"description"`
	Source      Source   `json:"source"`
}

func (d Details) clone() Details {
	d.Year = collection.ClonePtr(d.Year)
	d.Rating = collection.ClonePtr(d.Rating)
	return d
}

// NewMovie converts the lookup result into add input.
func (d Details) NewMovie() NewMovie {
	return NewMovie{
		Title:       d.Title,
		Genre:       d.Genre,
		Year:        d.Year,
		Rating:      d.Rating,
		Director:    d.Director,
		Description: d.Description,
		Source:      d.Source,
	}
}

// Enricher looks titles up in the Studio Ghibli catalog first and falls back
// to OMDB when an API key is configured.
type Enricher struct {
	ghibli GhibliClient
	omdb   OMDBClient
	cache  *gocache.Cache
	logger zerolog.Logger
}

// NewEnricher builds an enricher. Either client may be nil.
func NewEnricher(ghibliClient GhibliClient, omdbClient OMDBClient, logger zerolog.Logger) *Enricher {
	return &Enricher{
		ghibli: ghibliClient,
		omdb:   omdbClient,
		logger: logger.With().Str("component", "movie_enricher").Logger(),
	}
}

// WithCache keeps successful lookups for ttl, keyed by lowercased title.
// A non-positive ttl leaves caching off.
func (e *Enricher) WithCache(ttl time.Duration) *Enricher {
	if ttl > 0 {
		e.cache = gocache.New(ttl, 2*ttl)
	}
	return e
}

// Lookup never returns an error: every provider failure is logged and the
// next provider is tried.
func (e *Enricher) Lookup(ctx context.Context, title string) (Details, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Details{}, false
	}
	key := strings.ToLower(title)
	if e.cache != nil {
		if d, ok := e.cache.Get(key); ok {
			e.logger.Debug().Str("title", title).Msg("movie details served from cache")
			return d.(Details).clone(), true
		}
	}
	if d, ok := e.fromGhibli(ctx, title); ok {
		e.remember(key, d)
		return d, true
	}
	if d, ok := e.fromOMDB(ctx, title); ok {
		e.remember(key, d)
		return d, true
	}
	e.logger.Info().Str("title", title).Msg("no provider knows this title")
	return Details{}, false
}

func (e *Enricher) fromGhibli(ctx context.Context, title string) (Details, bool) {
	if e.ghibli == nil {
		return Details{}, false
	}
	start := time.Now()
	film, err := e.ghibli.FindFilm(ctx, title)
	if err != nil {
		e.record(providerGhibli, err, start, title)
		return Details{}, false
	}
	metrics.RecordLookup(providerGhibli, "found", time.Since(start))

	d := Details{
		Title:       film.Title,
		Genre:       "Animation",
		Director:    film.Director,
		Description: film.Description,
		Source:      SourceGhibli,
	}
	if year, err := strconv.Atoi(strings.TrimSpace(film.ReleaseDate)); err == nil {
		d.Year = &year
	}
	if score, err := strconv.ParseFloat(strings.TrimSpace(film.RTScore), 64); err == nil {
		r := score / 10
		d.Rating = &r
	}
	return d, true
}

func (e *Enricher) fromOMDB(ctx context.Context, title string) (Details, bool) {
	if e.omdb == nil || !e.omdb.Enabled() {
		return Details{}, false
	}
	start := time.Now()
	m, err := e.omdb.GetByTitle(ctx, title)
	if err != nil {
		e.record(providerOMDB, err, start, title)
		return Details{}, false
	}
	metrics.RecordLookup(providerOMDB, "found", time.Since(start))

	d := Details{
		Title:       m.Title,
		Genre:       firstGenre(m.Genre),
		Year:        leadingYear(m.Year),
		Director:    m.Director,
		Description: m.Plot,
		Source:      SourceOMDB,
	}
	if d.Title == "" {
		d.Title = title
	}
	r := omdbFallbackRating
	if v, err := strconv.ParseFloat(m.IMDBRating, 64); err == nil {
		r = v
	}
	d.Rating = &r
	return d, true
}

func (e *Enricher) remember(key string, d Details) {
	if e.cache != nil {
		e.cache.SetDefault(key, d.clone())
	}
}

func (e *Enricher) record(provider string, err error, start time.Time, title string) {
	if errors.Is(err, ghibli.ErrNotFound) || errors.Is(err, omdb.ErrNotFound) {
		metrics.RecordLookup(provider, "not_found", time.Since(start))
		e.logger.Debug().Str("provider", provider).Str("title", title).Msg("title not found")
		return
	}
	if breaker.Rejected(err) {
		metrics.RecordLookup(provider, "rejected", time.Since(start))
		e.logger.Warn().Str("provider", provider).Str("title", title).Msg("provider skipped, circuit open")
		return
	}
	metrics.RecordLookup(provider, "error", time.Since(start))
	e.logger.Warn().Err(err).Str("provider", provider).Str("title", title).Msg("lookup failed")
}

func firstGenre(genres string) string {
	first, _, _ := strings.Cut(genres, ",")
	if first = strings.TrimSpace(first); first == "" || first == "N/A" {
		return DefaultGenre
	}
	return first
}

// leadingYear parses the first four characters of an OMDB year such as
// "2010" or "2008–2013".
func leadingYear(s string) *int {
	if len(s) < 4 {
		return nil
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return nil
	}
	return &year
}
