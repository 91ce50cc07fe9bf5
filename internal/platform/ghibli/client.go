package ghibli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const DefaultBaseURL = "https://ghibliapi.vercel.app"

// ErrNotFound is returned when no film has the requested title.
var ErrNotFound = errors.New("ghibli: film not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Film matches one element of GET /films. Numeric values arrive as strings.
type Film struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Director    string `json:"director"`
	ReleaseDate string `json:"release_date"`
	RTScore     string `json:"rt_score"`
}

// ListFilms returns the whole film catalog.
func (c *Client) ListFilms(ctx context.Context) ([]Film, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/films", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var films []Film
	if err := json.NewDecoder(resp.Body).Decode(&films); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return films, nil
}

// FindFilm returns the film whose title equals title, ignoring case.
func (c *Client) FindFilm(ctx context.Context, title string) (*Film, error) {
	films, err := c.ListFilms(ctx)
	if err != nil {
		return nil, err
	}
	for i := range films {
		if strings.EqualFold(films[i].Title, strings.TrimSpace(title)) {
			return &films[i], nil
		}
	}
	return nil, ErrNotFound
}
