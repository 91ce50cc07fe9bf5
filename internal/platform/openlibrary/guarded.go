package openlibrary

import (
	"context"

	"github.com/rs/zerolog"

	"shelf/internal/platform/breaker"
)

// GuardedClient is a Client behind a circuit breaker. Missing ISBNs are
// answers, not faults, and never open the circuit.
type GuardedClient struct {
	client *Client
	cb     *breaker.Breaker[*BookDetails]
}

func NewGuardedClient(client *Client, logger zerolog.Logger) *GuardedClient {
	return &GuardedClient{
		client: client,
		cb:     breaker.New[*BookDetails]("openlibrary", logger, ErrNotFound),
	}
}

func (g *GuardedClient) GetBookByISBN(ctx context.Context, isbn string) (*BookDetails, error) {
	return g.cb.Execute(func() (*BookDetails, error) {
		return g.client.GetBookByISBN(ctx, isbn)
	})
}
