package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "Spirited Away", Genre: "Animation", Rating: floatPtr(9.5), Watched: true},
		{ID: 2, Title: "Heat", Genre: "Crime", Rating: floatPtr(8.0)},
		{ID: 3, Title: "Howl's Moving Castle", Genre: "animation", Rating: floatPtr(8.5)},
		{ID: 4, Title: "The Room", Genre: "Drama", Rating: floatPtr(0), Watched: true},
		{ID: 5, Title: "Alien", Genre: "Horror"},
	}
}

func ids(movies []Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 5}, ids(Search(sampleMovies(), "  A")))
	assert.Equal(t, []int{3}, ids(Search(sampleMovies(), "castle")))
	assert.Empty(t, Search(sampleMovies(), "zz"))
}

func TestSearchByGenre(t *testing.T) {
	assert.Equal(t, []int{1, 3}, ids(SearchByGenre(sampleMovies(), "ANIMATION")))
	assert.Empty(t, SearchByGenre(sampleMovies(), "anim"))
}

func TestFilterByWatched(t *testing.T) {
	assert.Equal(t, []int{1, 4}, ids(FilterByWatched(sampleMovies(), true)))
	assert.Equal(t, []int{2, 3, 5}, ids(FilterByWatched(sampleMovies(), false)))
}

func TestRecommend(t *testing.T) {
	assert.Equal(t, []int{1, 3, 2}, ids(Recommend(sampleMovies(), "", DefaultMinRating)))
	assert.Equal(t, []int{1, 3}, ids(Recommend(sampleMovies(), "Animation", DefaultMinRating)))
	assert.Equal(t, []int{1, 3, 2, 4}, ids(Recommend(sampleMovies(), "", 0)))
}

func TestGenresAndGroups(t *testing.T) {
	assert.Equal(t, []string{"Animation", "Crime", "Drama", "Horror", "animation"}, Genres(sampleMovies()))
	assert.Empty(t, Genres(nil))

	groups := GroupByGenre(sampleMovies())
	assert.Len(t, groups, 5)
	assert.Equal(t, []int{2}, ids(groups["Crime"]))
}

func TestStats(t *testing.T) {
	assert.Equal(t, Statistics{
		Total:         5,
		Watched:       2,
		Unwatched:     3,
		AverageRating: 6.5,
		Genres:        5,
	}, Stats(sampleMovies()))

	assert.Equal(t, Statistics{}, Stats(nil))
}
