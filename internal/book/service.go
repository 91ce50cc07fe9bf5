package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shelf/internal/validation"
)

// ErrLookupNotFound is returned when the catalog has no usable entry for an ISBN.
var ErrLookupNotFound = errors.New("no book details found for isbn")

// Service provides book-related business logic.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  zerolog.Logger
}

// NewService creates a new book service. catalog may be nil, in which case
// ISBN lookups always miss.
func NewService(repo Repository, catalog Catalog, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger.With().Str("component", "book_service").Logger(),
	}
}

func (s *Service) Add(in NewBook) (Book, error) {
	return s.repo.Add(in)
}

func (s *Service) Get(id int) (Book, error) {
	return s.repo.GetByID(id)
}

// List returns all books, or those with the given status.
func (s *Service) List(filter string) []Book {
	return s.repo.List(filter)
}

func (s *Service) Update(id int, field Field, value string) (Book, error) {
	return s.repo.Update(id, field, value)
}

func (s *Service) UpdateStatus(id int, status Status) (Book, error) {
	return s.repo.UpdateStatus(id, status)
}

func (s *Service) Rate(id int, rating float64) (Book, error) {
	return s.repo.Rate(id, rating)
}

func (s *Service) SetNotes(id int, notes string) (Book, error) {
	return s.repo.SetNotes(id, notes)
}

func (s *Service) Delete(id int) (Book, error) {
	return s.repo.Delete(id)
}

// Search matches query against the title, author or genre of every book.
func (s *Service) Search(query string, by Field) ([]Book, error) {
	return Search(s.repo.Snapshot(), query, by)
}

// Recommend returns rated books at or above minRating, best first.
func (s *Service) Recommend(genre string, minRating float64) []Book {
	return Recommend(s.repo.Snapshot(), genre, minRating)
}

// Group organizes books by genre or author.
func (s *Service) Group(by Field) (map[string][]Book, error) {
	switch Field(strings.ToLower(strings.TrimSpace(string(by)))) {
	case FieldGenre, "":
		return GroupByGenre(s.repo.Snapshot()), nil
	case FieldAuthor:
		return GroupByAuthor(s.repo.Snapshot()), nil
	default:
		return nil, fmt.Errorf("%w: cannot group by %q", ErrInvalidField, by)
	}
}

func (s *Service) Statistics() Statistics {
	return Stats(s.repo.Snapshot())
}

// Lookup fetches catalog details for isbn without touching the collection.
func (s *Service) Lookup(ctx context.Context, isbn string) (Details, error) {
	isbn = validation.NormalizeISBN(strings.TrimSpace(isbn))
	if !validation.IsISBN(isbn) {
		return Details{}, fmt.Errorf("%w: isbn must be a valid ISBN (10 or 13 digits)", ErrValidation)
	}
	if s.catalog == nil {
		return Details{}, fmt.Errorf("%w: %s", ErrLookupNotFound, isbn)
	}
	details, ok := s.catalog.Lookup(ctx, isbn)
	if !ok {
		return Details{}, fmt.Errorf("%w: %s", ErrLookupNotFound, isbn)
	}
	return details, nil
}

// AddFromISBN looks the book up in the catalog and adds it with the fields
// found there. The genre stays at its default.
func (s *Service) AddFromISBN(ctx context.Context, isbn string) (Book, error) {
	details, err := s.Lookup(ctx, isbn)
	if err != nil {
		return Book{}, err
	}
	s.logger.Debug().Str("isbn", details.ISBN).Str("title", details.Title).Msg("adding book from catalog")
	return s.repo.Add(details.NewBook())
}
