package movie

import (
	"strings"

	"shelf/internal/collection"
)

// DefaultMinRating is the recommendation threshold used when none is given.
const DefaultMinRating = 8.0

type Statistics struct {
	Total         int     `json:"total"`
	Watched       int     `json:"watched"`
	Unwatched     int     `json:"unwatched"`
	AverageRating float64 `json:"avg_rating"`
	Genres        int     `json:"genres"`
}

func rating(m Movie) *float64 { return m.Rating }
func genre(m Movie) string { return m.Genre }

func FilterByWatched(movies []Movie, watched bool) []Movie {
	return collection.Filter(movies, func(m Movie) bool { return m.Watched == watched })
}

// Search returns movies whose title contains query, ignoring case.
func Search(movies []Movie, query string) []Movie {
	return collection.Search(movies, query, func(m Movie) string { return m.Title })
}

// SearchByGenre returns movies whose genre equals g, ignoring case.
func SearchByGenre(movies []Movie, g string) []Movie {
	g = strings.TrimSpace(g)
	return collection.Filter(movies, func(m Movie) bool { return strings.EqualFold(m.Genre, g) })
}

func Recommend(movies []Movie, genreFilter string, minRating float64) []Movie {
	return collection.Recommend(movies, minRating, strings.TrimSpace(genreFilter), rating, genre)
}

// Genres returns the distinct genres, sorted.
func Genres(movies []Movie) []string {
	return collection.Distinct(movies, genre)
}

func GroupByGenre(movies []Movie) map[string][]Movie {
	return collection.GroupBy(movies, genre)
}

// Stats computes collection statistics. The average covers rated movies only.
func Stats(movies []Movie) Statistics {
	s := Statistics{Total: len(movies)}
	for _, m := range movies {
		if m.Watched {
			s.Watched++
		}
	}
	s.Unwatched = s.Total - s.Watched
	s.AverageRating = collection.Round(collection.AverageRating(movies, rating), 2)
	s.Genres = len(Genres(movies))
	return s
}
