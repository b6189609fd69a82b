package book

import (
	"context"

	"bookmood/internal/platform/aladin"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository is the book_external cache.
type Repository interface {
	GetByISBN(ctx context.Context, isbn13 string) (External, error)
	Upsert(ctx context.Context, b *External) error
	List(ctx context.Context, q ListQuery) ([]External, int, error)
}

// Catalog is the remote book search API.
type Catalog interface {
	Search(ctx context.Context, p aladin.SearchParams) (*aladin.SearchResponse, error)
	LookupISBN13(ctx context.Context, isbn13 string) (*aladin.Item, error)
}
