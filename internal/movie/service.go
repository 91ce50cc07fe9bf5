package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrLookupNotFound is returned when no catalog knows a title.
var ErrLookupNotFound = errors.New("no movie details found for title")

// Service provides movie-related business logic.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  zerolog.Logger
}

// NewService creates a new movie service. catalog may be nil, in which case
// title lookups always miss.
func NewService(repo Repository, catalog Catalog, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger.With().Str("component", "movie_service").Logger(),
	}
}

func (s *Service) Add(in NewMovie) (Movie, error) {
	return s.repo.Add(in)
}

func (s *Service) Get(id int) (Movie, error) {
	return s.repo.GetByID(id)
}

func (s *Service) FindByTitle(title string) (Movie, error) {
	return s.repo.FindByTitle(title)
}

// List returns all movies, or the watched or unwatched ones.
func (s *Service) List(filter string) []Movie {
	return s.repo.List(filter)
}

func (s *Service) Update(id int, field Field, value string) (Movie, error) {
	return s.repo.Update(id, field, value)
}

func (s *Service) MarkWatched(id int, watched bool) (Movie, error) {
	return s.repo.MarkWatched(id, watched)
}

func (s *Service) Rate(id int, rating float64) (Movie, error) {
	return s.repo.Rate(id, rating)
}

func (s *Service) Delete(id int) (Movie, error) {
	return s.repo.Delete(id)
}

// DeleteByTitle removes every movie with the given title, ignoring case.
func (s *Service) DeleteByTitle(title string) ([]Movie, error) {
	return s.repo.DeleteByTitle(title)
}

func (s *Service) Search(query string) []Movie {
	return Search(s.repo.Snapshot(), query)
}

func (s *Service) SearchByGenre(genre string) []Movie {
	return SearchByGenre(s.repo.Snapshot(), genre)
}

func (s *Service) Recommend(genre string, minRating float64) []Movie {
	return Recommend(s.repo.Snapshot(), genre, minRating)
}

func (s *Service) Genres() []string {
	return Genres(s.repo.Snapshot())
}

func (s *Service) GroupByGenre() map[string][]Movie {
	return GroupByGenre(s.repo.Snapshot())
}

func (s *Service) Statistics() Statistics {
	return Stats(s.repo.Snapshot())
}

// Lookup fetches details for title without touching the collection.
func (s *Service) Lookup(ctx context.Context, title string) (Details, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Details{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if s.catalog == nil {
		return Details{}, fmt.Errorf("%w: %q", ErrLookupNotFound, title)
	}
	details, ok := s.catalog.Lookup(ctx, title)
	if !ok {
		return Details{}, fmt.Errorf("%w: %q", ErrLookupNotFound, title)
	}
	return details, nil
}

// AddFromTitle looks title up and adds the movie with the details found.
func (s *Service) AddFromTitle(ctx context.Context, title string) (Movie, error) {
	details, err := s.Lookup(ctx, title)
	if err != nil {
		return Movie{}, err
	}
	s.logger.Debug().Str("title", details.Title).Str("source", string(details.Source)).Msg("adding movie from catalog")
	return s.repo.Add(details.NewMovie())
}
