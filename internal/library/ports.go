package library

import (
	"context"

	"bookmood/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

type Repository interface {
	Create(ctx context.Context, it *Item) error
	Get(ctx context.Context, userID, id string) (Item, error)
	GetByISBN(ctx context.Context, userID, isbn13 string) (Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, f ListFilter) ([]Item, int, error)
}

// BookLookup makes sure a book is cached before an item points at it.
type BookLookup interface {
	Lookup(ctx context.Context, isbn string) (book.External, error)
}
