package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Repository defines the contract for book storage.
type Repository interface {
	Add(in NewBook) (Book, error)
	GetByID(id int) (Book, error)
	List(filter string) []Book
	Update(id int, field Field, value string) (Book, error)
	UpdateStatus(id int, status Status) (Book, error)
	Rate(id int, rating float64) (Book, error)
	SetNotes(id int, notes string) (Book, error)
	Delete(id int) (Book, error)
	Snapshot() []Book
}

// Catalog resolves an ISBN to book details. ok is false when nothing usable
// came back.
type Catalog interface {
	Lookup(ctx context.Context, isbn string) (Details, bool)
}
