package movie

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=movie

// Repository defines the contract for movie storage.
type Repository interface {
	Add(in NewMovie) (Movie, error)
	GetByID(id int) (Movie, error)
	FindByTitle(title string) (Movie, error)
	List(filter string) []Movie
	Update(id int, field Field, value string) (Movie, error)
	MarkWatched(id int, watched bool) (Movie, error)
	Rate(id int, rating float64) (Movie, error)
	Delete(id int) (Movie, error)
	DeleteByTitle(title string) ([]Movie, error)
	Snapshot() []Movie
}

// Catalog resolves a title to movie details.
type Catalog interface {
	Lookup(ctx context.Context, title string) (Details, bool)
}
