package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelf/internal/app"
	"shelf/internal/config"
	"shelf/internal/platform/crypto"
)

func testRouter(t *testing.T, secret string) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		BooksFile:     filepath.Join(dir, "books.json"),
		MoviesFile:    filepath.Join(dir, "movies.json"),
		LookupTimeout: time.Second,
		MaxBodyBytes:  1 << 20,
		JWTSecret:     secret,
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newRouter(ctx, cfg, app.New(cfg, zerolog.Nop()), zerolog.Nop())
}

func do(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRouter_Health(t *testing.T) {
	h := testRouter(t, "")

	w := do(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = do(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_BookFlow(t *testing.T) {
	h := testRouter(t, "")

	w := do(h, http.MethodPost, "/v1/books", `{"title":"A","author":"Someone","genre":"X"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(h, http.MethodPut, "/v1/books/1/rating", `{"rating":4.5}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodGet, "/v1/books/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"average_rating":4.5`)
	assert.Contains(t, w.Body.String(), `"read":0`)

	w = do(h, http.MethodGet, "/v1/books/search?q=zz&by=title", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	w = do(h, http.MethodGet, "/v1/movies", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_WritesRequireTokenWhenSecretSet(t *testing.T) {
	h := testRouter(t, "s3cret")

	w := do(h, http.MethodPost, "/v1/movies", `{"title":"Heat"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, http.MethodGet, "/v1/movies", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := crypto.GenerateToken("s3cret", "test", time.Minute)
	require.NoError(t, err)
	w = do(h, http.MethodPost, "/v1/movies", `{"title":"Heat"}`, token)
	assert.Equal(t, http.StatusCreated, w.Code)
}
