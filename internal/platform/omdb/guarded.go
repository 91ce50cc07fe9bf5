package omdb

import (
	"context"

	"github.com/rs/zerolog"

	"shelf/internal/platform/breaker"
)

// GuardedClient is a Client behind a circuit breaker.
type GuardedClient struct {
	client *Client
	cb     *breaker.Breaker[*Movie]
}

func NewGuardedClient(client *Client, logger zerolog.Logger) *GuardedClient {
	return &GuardedClient{
		client: client,
		cb:     breaker.New[*Movie]("omdb", logger, ErrNotFound, ErrNoAPIKey),
	}
}

func (g *GuardedClient) Enabled() bool {
	return g.client.Enabled()
}

func (g *GuardedClient) GetByTitle(ctx context.Context, title string) (*Movie, error) {
	return g.cb.Execute(func() (*Movie, error) {
		return g.client.GetByTitle(ctx, title)
	})
}
