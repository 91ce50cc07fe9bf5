package movie

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"shelf/internal/collection"
	"shelf/internal/validation"
)

var (
	// ErrNotFound is returned when no movie matches an identifier or title.
	ErrNotFound = errors.New("movie not found")
	// ErrInvalidRating is returned for ratings outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("rating must be between 0 and 10")
	// ErrInvalidField is returned when an update or search names an unknown field.
	ErrInvalidField = errors.New("unknown movie field")
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("invalid movie")
	// ErrPersist is returned when the change was applied in memory but could
	// not be written to disk.
	ErrPersist = collection.ErrPersist
)

const (
	MinRating    = 0.0
	MaxRating    = 10.0
	DefaultGenre = "Unknown"
	DateLayout   = "2006-01-02"
)

// Source records where a movie's details came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceGhibli Source = "Studio Ghibli"
	SourceOMDB   Source = "OMDB"
)

// Movie is one entry in the collection. Year and Rating are optional and
// serialize as null when unset.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Year        *int     `json:"year"`
	Rating      *float64 `json:"rating"`
	Watched     bool     `json:"watched"`
	Director    string   `json:"director"`
	Description string   `json:"description"`
	Source      Source   `json:"source"`
	AddedDate   string   `json:"added_date"`
	Notes       string   `json:"notes"`
}

// NewMovie holds the fields accepted when adding a movie.
type NewMovie struct {
	Title       string   `json:"title" validate:"notblank"`
	Genre       string   `json:"genre"`
	Year        *int     `json:"year"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Watched     bool     `json:"watched"`
	Director    string   `json:"director"`
	Description string   `json:"description"`
	Source      Source   `json:"source" validate:"omitempty,oneof=manual 'Studio Ghibli' OMDB"`
}

// Validate checks the add input and wraps any failure in ErrValidation.
func (n NewMovie) Validate() error {
	if err := validation.Struct(n); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Field names a movie attribute that can be updated.
type Field string

const (
	FieldTitle       Field = "title"
	FieldGenre       Field = "genre"
	FieldYear        Field = "year"
	FieldRating      Field = "rating"
	FieldWatched     Field = "watched"
	FieldDirector    Field = "director"
	FieldDescription Field = "description"
	FieldNotes       Field = "notes"
)

// ParseField validates s case-insensitively and returns it as a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldTitle, FieldGenre, FieldYear, FieldRating, FieldWatched, FieldDirector, FieldDescription, FieldNotes:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

func validateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: got %v", ErrInvalidRating, r)
	}
	return nil
}

func (m *Movie) apply(field Field, value string) error {
	trimmed := strings.TrimSpace(value)

	switch field {
	case FieldTitle:
		if trimmed == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		m.Title = trimmed
	case FieldGenre:
		if trimmed == "" {
			trimmed = DefaultGenre
		}
		m.Genre = trimmed
	case FieldYear:
		if trimmed == "" {
			m.Year = nil
			return nil
		}
		year, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("%w: year must be an integer", ErrValidation)
		}
		m.Year = &year
	case FieldRating:
		if trimmed == "" {
			m.Rating = nil
			return nil
		}
		r, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("%w: rating must be a number", ErrInvalidRating)
		}
		if err := validateRating(r); err != nil {
			return err
		}
		m.Rating = &r
	case FieldWatched:
		watched, err := strconv.ParseBool(trimmed)
		if err != nil {
			return fmt.Errorf("%w: watched must be true or false", ErrValidation)
		}
		m.Watched = watched
	case FieldDirector:
		m.Director = trimmed
	case FieldDescription:
		m.Description = trimmed
	case FieldNotes:
		m.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}
