package ghibli

import (
	"context"

	"github.com/rs/zerolog"

	"shelf/internal/platform/breaker"
)

// GuardedClient is a Client behind a circuit breaker.
type GuardedClient struct {
	client *Client
	cb     *breaker.Breaker[*Film]
}

func NewGuardedClient(client *Client, logger zerolog.Logger) *GuardedClient {
	return &GuardedClient{
		client: client,
		cb:     breaker.New[*Film]("ghibli", logger, ErrNotFound),
	}
}

func (g *GuardedClient) FindFilm(ctx context.Context, title string) (*Film, error) {
	return g.cb.Execute(func() (*Film, error) {
		return g.client.FindFilm(ctx, title)
	})
}
