package ghibli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filmsResponse = `[
  {"id": "2baf70d1", "title": "Castle in the Sky", "director": "Hayao Miyazaki", "release_date": "1986", "rt_score": "95", "description": "A boy and a girl"},
  {"id": "58611129", "title": "Spirited Away", "director": "Hayao Miyazaki", "release_date": "2001", "rt_score": "97", "description": "Chihiro"}
]`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/films", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FindFilm(t *testing.T) {
	srv := newServer(t, http.StatusOK, filmsResponse)
	c := NewClient(srv.URL, 5*time.Second)

	film, err := c.FindFilm(context.Background(), "  spirited away ")

	require.NoError(t, err)
	assert.Equal(t, "Spirited Away", film.Title)
	assert.Equal(t, "97", film.RTScore)
	assert.Equal(t, "2001", film.ReleaseDate)
}

func TestClient_FindFilm_NoMatch(t *testing.T) {
	srv := newServer(t, http.StatusOK, filmsResponse)
	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.FindFilm(context.Background(), "Akira")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ListFilms_Non200(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, "")
	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.ListFilms(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
