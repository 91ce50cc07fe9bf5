package book

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
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidRating is returned for ratings outside [MinRating, MaxRating].
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
	// ErrInvalidStatus is returned for a status other than unread, reading or read.
	ErrInvalidStatus = errors.New("status must be one of: unread, reading, read")
	// ErrInvalidField is returned when an update or search names an unknown field.
	ErrInvalidField = errors.New("unknown book field")
	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("invalid book")
	// ErrPersist is returned when the change was applied in memory but could
	// not be written to disk.
	ErrPersist = collection.ErrPersist
)

const (
	MinRating    = 0.0
	MaxRating    = 5.0
	DefaultGenre = "Unknown"
	DateLayout   = "2006-01-02"
)

// Status is the reading status of a book.
type Status string

const (
	StatusUnread  Status = "unread"
	StatusReading Status = "reading"
	StatusRead    Status = "read"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusUnread, StatusReading, StatusRead}

// ParseStatus validates s and returns it as a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusUnread, StatusReading, StatusRead:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Book is one entry in the collection. Optional fields are pointers and
// serialize as null when unset.
type Book struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Genre     string   `json:"genre"`
	Year      *int     `json:"year"`
	ISBN      *string  `json:"isbn"`
	Rating    *float64 `json:"rating"`
	Status    Status   `json:"status"`
	AddedDate string   `json:"added_date"`
	Notes     string   `json:"notes"`
}

// NewBook holds the fields accepted when adding a book.
type NewBook struct {
	Title  string `json:"title" validate:"notblank"`
	Author string `json:"author" validate:"notblank"`
	Genre  string `json:"genre"`
	Year   *int   `json:"year"`
	ISBN   string `json:"isbn" validate:"omitempty,isbn"`
}

// Validate checks the required fields.
func (n NewBook) Validate() error {
	if err := validation.Struct(n); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Field names a book attribute that can be updated or searched.
type Field string

const (
	FieldTitle  Field = "title"
	FieldAuthor Field = "author"
	FieldGenre  Field = "genre"
	FieldYear   Field = "year"
	FieldISBN   Field = "isbn"
	FieldStatus Field = "status"
	FieldRating Field = "rating"
	FieldNotes  Field = "notes"
)

// ParseField validates s as an updatable field name.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldTitle, FieldAuthor, FieldGenre, FieldYear, FieldISBN, FieldStatus, FieldRating, FieldNotes:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
	}
}

// validateRating reports ErrInvalidRating unless r lies in [MinRating, MaxRating].
func validateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: got %v", ErrInvalidRating, r)
	}
	return nil
}

// apply sets field on b from its string form. b is left untouched on error.
func (b *Book) apply(field Field, value string) error {
	trimmed := strings.TrimSpace(value)

	switch field {
	case FieldTitle, FieldAuthor:
		if trimmed == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
		}
		if field == FieldTitle {
			b.Title = trimmed
		} else {
			b.Author = trimmed
		}
	case FieldGenre:
		if trimmed == "" {
			trimmed = DefaultGenre
		}
		b.Genre = trimmed
	case FieldYear:
		if trimmed == "" {
			b.Year = nil
			return nil
		}
		year, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("%w: year must be an integer", ErrValidation)
		}
		b.Year = &year
	case FieldISBN:
		if trimmed == "" {
			b.ISBN = nil
			return nil
		}
		if !validation.IsISBN(trimmed) {
			return fmt.Errorf("%w: isbn must be a valid ISBN (10 or 13 digits)", ErrValidation)
		}
		b.ISBN = &trimmed
	case FieldStatus:
		status, err := ParseStatus(trimmed)
		if err != nil {
			return err
		}
		b.Status = status
	case FieldRating:
		if trimmed == "" {
			b.Rating = nil
			return nil
		}
		r, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("%w: rating must be a number", ErrInvalidRating)
		}
		if err := validateRating(r); err != nil {
			return err
		}
		b.Rating = &r
	case FieldNotes:
		b.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return nil
}
