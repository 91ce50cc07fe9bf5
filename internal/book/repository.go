package book

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shelf/internal/collection"
)

var identity = collection.Identity[Book]{
	ID:    func(b Book) int { return b.ID },
	SetID: func(b *Book, id int) { b.ID = id },
	Clone: func(b Book) Book {
		b.Year = collection.ClonePtr(b.Year)
		b.ISBN = collection.ClonePtr(b.ISBN)
		b.Rating = collection.ClonePtr(b.Rating)
		return b
	},
	Normalize: normalize,
}

// normalize fills the defaults a book file may omit: a missing genre becomes
// DefaultGenre and a missing or unknown status becomes StatusUnread.
func normalize(b *Book) bool {
	changed := false
	if strings.TrimSpace(b.Genre) == "" {
		b.Genre = DefaultGenre
		changed = true
	}
	status, err := ParseStatus(string(b.Status))
	if err != nil {
		status = StatusUnread
	}
	if status != b.Status {
		b.Status = status
		changed = true
	}
	return changed
}

// FileRepository stores books in a JSON file.
type FileRepository struct {
	records *collection.Collection[Book]
	logger  zerolog.Logger
	now     func() time.Time
}

// NewFileRepository opens the book collection stored at path.
func NewFileRepository(path string, logger zerolog.Logger) *FileRepository {
	logger = logger.With().Str("component", "book_repository").Logger()
	return &FileRepository{
		records: collection.Open("books", path, identity, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Load re-reads the backing file and returns the books it holds.
func (r *FileRepository) Load() []Book {
	return r.records.Load()
}

// Save writes every book back to the backing file.
func (r *FileRepository) Save() error {
	return r.records.Save()
}

// Path returns the file the books are stored in.
func (r *FileRepository) Path() string {
	return r.records.Path()
}

// Snapshot returns a copy of all books in insertion order.
func (r *FileRepository) Snapshot() []Book {
	return r.records.Snapshot()
}

// Add validates in, assigns the next identifier and persists the new book.
// When only persisting fails the returned book is valid and ErrPersist is
// returned alongside it.
func (r *FileRepository) Add(in NewBook) (Book, error) {
	if err := in.Validate(); err != nil {
		r.logger.Warn().Err(err).Msg("rejected book")
		return Book{}, err
	}

	genre := strings.TrimSpace(in.Genre)
	if genre == "" {
		genre = DefaultGenre
	}
	var isbn *string
	if s := strings.TrimSpace(in.ISBN); s != "" {
		isbn = &s
	}

	added, err := r.records.Insert(func(id int) Book {
		return Book{
			ID:        id,
			Title:     strings.TrimSpace(in.Title),
			Author:    strings.TrimSpace(in.Author),
			Genre:     genre,
			Year:      in.Year,
			ISBN:      isbn,
			Status:    StatusUnread,
			AddedDate: r.now().Format(DateLayout),
			Notes:     "",
		}
	})
	r.logger.Info().Int("id", added.ID).Str("title", added.Title).Str("author", added.Author).Msg("added book")
	return added, err
}

// GetByID returns the book with the given identifier.
func (r *FileRepository) GetByID(id int) (Book, error) {
	b, err := r.records.Get(id)
	return b, r.translate(id, err)
}

// List returns every book when filter is "all" or empty, otherwise the books
// whose status equals filter.
func (r *FileRepository) List(filter string) []Book {
	books := r.records.Snapshot()
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return books
	}
	filtered := FilterByStatus(books, Status(filter))
	r.logger.Debug().Int("count", len(filtered)).Str("filter", filter).Msg("listed books")
	return filtered
}

// Update sets one field from its string form and persists.
func (r *FileRepository) Update(id int, field Field, value string) (Book, error) {
	return r.mutate(id, func(b *Book) error {
		return b.apply(field, value)
	})
}

// UpdateStatus changes the reading status and persists.
func (r *FileRepository) UpdateStatus(id int, status Status) (Book, error) {
	return r.Update(id, FieldStatus, string(status))
}

// Rate sets the rating and persists. Out-of-range ratings are rejected and
// leave the stored rating unchanged.
func (r *FileRepository) Rate(id int, rating float64) (Book, error) {
	if err := validateRating(rating); err != nil {
		r.logger.Warn().Float64("rating", rating).Msg("invalid rating attempted")
		return Book{}, err
	}
	return r.mutate(id, func(b *Book) error {
		b.Rating = &rating
		return nil
	})
}

// SetNotes replaces the free-text notes and persists.
func (r *FileRepository) SetNotes(id int, notes string) (Book, error) {
	return r.Update(id, FieldNotes, notes)
}

// Delete removes the book and persists.
func (r *FileRepository) Delete(id int) (Book, error) {
	removed, err := r.records.Remove(id)
	if err = r.translate(id, err); err != nil && !errors.Is(err, ErrPersist) {
		return Book{}, err
	}
	r.logger.Info().Int("id", id).Str("title", removed.Title).Msg("deleted book")
	return removed, err
}

func (r *FileRepository) mutate(id int, fn func(*Book) error) (Book, error) {
	updated, err := r.records.Mutate(id, fn)
	if err = r.translate(id, err); err != nil && !errors.Is(err, ErrPersist) {
		r.logger.Warn().Err(err).Int("id", id).Msg("book update rejected")
		return Book{}, err
	}
	r.logger.Info().Int("id", id).Msg("updated book")
	return updated, err
}

func (r *FileRepository) translate(id int, err error) error {
	if errors.Is(err, collection.ErrNotFound) {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return err
}
