package book

import (
	"fmt"
	"strings"

	"shelf/internal/collection"
)

// DefaultMinRating is the recommendation threshold used when none is given.
const DefaultMinRating = 4.0

// Statistics summarizes a book collection.
type Statistics struct {
	TotalBooks    int     `json:"total_books"`
	Read          int     `json:"read"`
	Reading       int     `json:"reading"`
	Unread        int     `json:"unread"`
	AverageRating float64 `json:"average_rating"`
	UniqueGenres  int     `json:"unique_genres"`
	UniqueAuthors int     `json:"unique_authors"`
}

func rating(b Book) *float64 { return b.Rating }
func genre(b Book) string { return b.Genre }
func author(b Book) string { return b.Author }

// FilterByStatus returns the books whose status equals status.
func FilterByStatus(books []Book, status Status) []Book {
	return collection.Filter(books, func(b Book) bool { return b.Status == status })
}

// Search matches query as a case-insensitive substring of the title, author
// or genre. by is matched case-insensitively.
func Search(books []Book, query string, by Field) ([]Book, error) {
	var field func(Book) string
	switch Field(strings.ToLower(strings.TrimSpace(string(by)))) {
	case FieldTitle, "":
		field = func(b Book) string { return b.Title }
	case FieldAuthor:
		field = author
	case FieldGenre:
		field = genre
	default:
		return nil, fmt.Errorf("%w: cannot search by %q", ErrInvalidField, by)
	}
	return collection.Search(books, query, field), nil
}

// GroupByGenre maps each genre to its books in insertion order.
func GroupByGenre(books []Book) map[string][]Book {
	return collection.GroupBy(books, genre)
}

// GroupByAuthor maps each author to their books in insertion order.
func GroupByAuthor(books []Book) map[string][]Book {
	return collection.GroupBy(books, author)
}

// Recommend returns rated books at or above minRating, optionally restricted
// to one genre, best rated first.
func Recommend(books []Book, genreFilter string, minRating float64) []Book {
	return collection.Recommend(books, minRating, strings.TrimSpace(genreFilter), rating, genre)
}

// Stats computes collection statistics. The average covers rated books only
// and is 0 when nothing is rated.
func Stats(books []Book) Statistics {
	s := Statistics{TotalBooks: len(books)}
	for _, b := range books {
		switch b.Status {
		case StatusRead:
			s.Read++
		case StatusReading:
			s.Reading++
		case StatusUnread:
			s.Unread++
		}
	}
	s.AverageRating = collection.Round(collection.AverageRating(books, rating), 2)
	s.UniqueGenres = len(collection.Distinct(books, genre))
	s.UniqueAuthors = len(collection.Distinct(books, author))
	return s
}
