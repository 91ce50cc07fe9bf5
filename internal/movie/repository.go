package movie

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shelf/internal/collection"
)

var identity = collection.Identity[Movie]{
	ID:    func(m Movie) int { return m.ID },
	SetID: func(m *Movie, id int) { m.ID = id },
	Clone: func(m Movie) Movie {
		m.Year = collection.ClonePtr(m.Year)
		m.Rating = collection.ClonePtr(m.Rating)
		return m
	},
	Normalize: normalize,
}

// normalize fills the defaults a movie file may omit.
func normalize(m *Movie) bool {
	changed := false
	if strings.TrimSpace(m.Genre) == "" {
		m.Genre = DefaultGenre
		changed = true
	}
	if m.Source == "" {
		m.Source = SourceManual
		changed = true
	}
	return changed
}

// List filters accepted by FileRepository.List.
const (
	FilterAll       = "all"
	FilterWatched   = "watched"
	FilterUnwatched = "unwatched"
)

// ParseFilter validates a list filter. The empty string means FilterAll.
func ParseFilter(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterWatched, FilterUnwatched:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", ErrValidation, s)
	}
}

// FileRepository stores movies in a JSON file.
type FileRepository struct {
	records *collection.Collection[Movie]
	logger  zerolog.Logger
	now     func() time.Time
}

// NewFileRepository opens the movie collection stored at path.
func NewFileRepository(path string, logger zerolog.Logger) *FileRepository {
	logger = logger.With().Str("component", "movie_repository").Logger()
	return &FileRepository{
		records: collection.Open("movies", path, identity, logger),
		logger:  logger,
		now:     time.Now,
	}
}

func (r *FileRepository) Load() []Movie {
	return r.records.Load()
}

func (r *FileRepository) Save() error {
	return r.records.Save()
}

// Path returns the file the movies are stored in.
func (r *FileRepository) Path() string {
	return r.records.Path()
}

func (r *FileRepository) Snapshot() []Movie {
	return r.records.Snapshot()
}

// Add validates in, assigns the next identifier and persists the new movie.
func (r *FileRepository) Add(in NewMovie) (Movie, error) {
	if err := in.Validate(); err != nil {
		r.logger.Warn().Err(err).Msg("rejected movie")
		return Movie{}, err
	}

	genre := strings.TrimSpace(in.Genre)
	if genre == "" {
		genre = DefaultGenre
	}
	source := in.Source
	if source == "" {
		source = SourceManual
	}

	added, err := r.records.Insert(func(id int) Movie {
		return Movie{
			ID:          id,
			Title:       strings.TrimSpace(in.Title),
			Genre:       genre,
			Year:        in.Year,
			Rating:      in.Rating,
			Watched:     in.Watched,
			Director:    strings.TrimSpace(in.Director),
			Description: strings.TrimSpace(in.Description),
			Source:      source,
			AddedDate:   r.now().Format(DateLayout),
		}
	})
	r.logger.Info().Int("id", added.ID).Str("title", added.Title).Str("source", string(source)).Msg("added movie")
	return added, err
}

// GetByID returns the movie with the given identifier.
func (r *FileRepository) GetByID(id int) (Movie, error) {
	m, err := r.records.Get(id)
	return m, r.translate(fmt.Sprintf("movie %d", id), err)
}

// FindByTitle returns the first movie whose title equals title, ignoring case.
func (r *FileRepository) FindByTitle(title string) (Movie, error) {
	title = strings.TrimSpace(title)
	m, ok := r.records.Find(func(m Movie) bool { return strings.EqualFold(m.Title, title) })
	if !ok {
		return Movie{}, fmt.Errorf("movie %q: %w", title, ErrNotFound)
	}
	return m, nil
}

// List returns every movie for "all" or "", the watched or unwatched ones for
// those filters, and nothing for any other filter.
func (r *FileRepository) List(filter string) []Movie {
	movies := r.records.Snapshot()
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", FilterAll:
		return movies
	case FilterWatched:
		return FilterByWatched(movies, true)
	case FilterUnwatched:
		return FilterByWatched(movies, false)
	default:
		r.logger.Debug().Str("filter", filter).Msg("unknown list filter")
		return []Movie{}
	}
}

func (r *FileRepository) Update(id int, field Field, value string) (Movie, error) {
	return r.mutate(id, func(m *Movie) error {
		return m.apply(field, value)
	})
}

func (r *FileRepository) MarkWatched(id int, watched bool) (Movie, error) {
	return r.mutate(id, func(m *Movie) error {
		m.Watched = watched
		return nil
	})
}

// Rate sets the rating. Out-of-range ratings leave the stored rating unchanged.
func (r *FileRepository) Rate(id int, rating float64) (Movie, error) {
	if err := validateRating(rating); err != nil {
		r.logger.Warn().Float64("rating", rating).Msg("invalid rating attempted")
		return Movie{}, err
	}
	return r.mutate(id, func(m *Movie) error {
		m.Rating = &rating
		return nil
	})
}

func (r *FileRepository) Delete(id int) (Movie, error) {
	removed, err := r.records.Remove(id)
	if err = r.translate(fmt.Sprintf("movie %d", id), err); err != nil && !errors.Is(err, ErrPersist) {
		return Movie{}, err
	}
	r.logger.Info().Int("id", id).Str("title", removed.Title).Msg("deleted movie")
	return removed, err
}

// DeleteByTitle removes every movie whose title equals title, ignoring case.
func (r *FileRepository) DeleteByTitle(title string) ([]Movie, error) {
	title = strings.TrimSpace(title)
	removed, err := r.records.RemoveFunc(func(m Movie) bool { return strings.EqualFold(m.Title, title) })
	if err = r.translate(fmt.Sprintf("movie %q", title), err); err != nil && !errors.Is(err, ErrPersist) {
		return nil, err
	}
	r.logger.Info().Str("title", title).Int("count", len(removed)).Msg("deleted movies by title")
	return removed, err
}

func (r *FileRepository) mutate(id int, fn func(*Movie) error) (Movie, error) {
	updated, err := r.records.Mutate(id, fn)
	if err = r.translate(fmt.Sprintf("movie %d", id), err); err != nil && !errors.Is(err, ErrPersist) {
		r.logger.Warn().Err(err).Int("id", id).Msg("movie update rejected")
		return Movie{}, err
	}
	r.logger.Info().Int("id", id).Msg("updated movie")
	return updated, err
}

func (r *FileRepository) translate(key string, err error) error {
	if errors.Is(err, collection.ErrNotFound) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return err
}
