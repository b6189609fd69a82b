package review

import (
	"context"

	"bookmood/internal/analysis"
	"bookmood/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=review

type Repository interface {
	// Create stores the review with its emotions and topics atomically.
	Create(ctx context.Context, r *Review) error
	FindByUserAndISBN(ctx context.Context, userID, isbn13 string) (Review, error)
	Get(ctx context.Context, userID, id string) (Review, error)
	ListByUser(ctx context.Context, userID string, after Cursor, limit int) ([]Review, error)
	ListByBook(ctx context.Context, isbn13 string, limit, offset int) ([]Review, int, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, userID, id string) error
}

type BookLookup interface {
	Lookup(ctx context.Context, isbn string) (book.External, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, userID string, in analysis.Input) analysis.Result
}
