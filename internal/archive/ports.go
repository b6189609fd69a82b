package archive

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=archive

type Repository interface {
	ShelfCounts(ctx context.Context, userID string) (ShelfCounts, error)
	ReviewStats(ctx context.Context, userID string) (ReviewStats, error)
	TopTags(ctx context.Context, userID string, kind TagKind, limit int) ([]TagCount, error)
	// CompletedByMonth maps month (1-12) to the number of books finished in it.
	CompletedByMonth(ctx context.Context, userID string, year int) (map[int]int, error)
}
