package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) ShelfCounts(ctx context.Context, userID string) (ShelfCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `
		SELECT
			count(*) FILTER (WHERE wishlist),
			count(*) FILTER (WHERE status = 'want_to_read'),
			count(*) FILTER (WHERE status = 'reading'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE status = 'paused'),
			count(*) FILTER (WHERE status = 'dropped')
		FROM library_items
		WHERE user_id = $1`

	var c ShelfCounts
	err := r.db.QueryRow(ctx, q, userID).Scan(
		&c.Wishlist, &c.WantToRead, &c.Reading, &c.Completed, &c.Paused, &c.Dropped,
	)
	if err != nil {
		return ShelfCounts{}, fmt.Errorf("shelf counts: %w", err)
	}
	return c, nil
}

func (r *PostgresRepo) ReviewStats(ctx context.Context, userID string) (ReviewStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `SELECT count(*), COALESCE(avg(rating), 0)::float8 FROM reviews WHERE user_id = $1`

	var s ReviewStats
	if err := r.db.QueryRow(ctx, q, userID).Scan(&s.Count, &s.AverageRating); err != nil {
		return ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return s, nil
}

func tagTable(kind TagKind) (table, column string, err error) {
	switch kind {
	case TagEmotion:
		return "review_emotions", "emotion", nil
	case TagTopic:
		return "review_topics", "topic", nil
	default:
		return "", "", fmt.Errorf("unknown tag kind %q", kind)
	}
}

func (r *PostgresRepo) TopTags(ctx context.Context, userID string, kind TagKind, limit int) ([]TagCount, error) {
	table, column, err := tagTable(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	q := fmt.Sprintf(`
		SELECT t.%[2]s, count(*) AS n
		FROM %[1]s t
		JOIN reviews rv ON rv.id = t.review_id
		WHERE rv.user_id = $1
		GROUP BY t.%[2]s
		ORDER BY n DESC, min(t.position), t.%[2]s
		LIMIT $2`, table, column)

	rows, err := r.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("top %ss: %w", kind, err)
	}
	defer rows.Close()

	tags := make([]TagCount, 0, limit)
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Label, &tc.Count); err != nil {
			return nil, err
		}
		tags = append(tags, tc)
	}
	return tags, rows.Err()
}

func (r *PostgresRepo) CompletedByMonth(ctx context.Context, userID string, year int) (map[int]int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	const q = `
		SELECT EXTRACT(MONTH FROM finished_at)::int, count(*)
		FROM library_items
		WHERE user_id = $1
		  AND status = 'completed'
		  AND finished_at >= make_date($2, 1, 1)
		  AND finished_at < make_date($2 + 1, 1, 1)
		GROUP BY 1`

	rows, err := r.db.Query(ctx, q, userID, year)
	if err != nil {
		return nil, fmt.Errorf("completed by month: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int, 12)
	for rows.Next() {
		var month, n int
		if err := rows.Scan(&month, &n); err != nil {
			return nil, err
		}
		out[month] = n
	}
	return out, rows.Err()
}
