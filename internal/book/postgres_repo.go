package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
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

const externalColumns = `isbn13, isbn10, item_id, title, author, publisher, pub_date, summary,
	price_sales, price_standard, review_rank, cover_url, category_id, category_name, genre,
	page_count, page_estimated, link, raw, created_at, updated_at`

func scanExternal(row pgx.Row) (External, error) {
	var b External
	var raw []byte
	err := row.Scan(
		&b.ISBN13, &b.ISBN10, &b.ItemID, &b.Title, &b.Author, &b.Publisher, &b.PubDate, &b.Summary,
		&b.PriceSales, &b.PriceStandard, &b.ReviewRank, &b.CoverURL, &b.CategoryID, &b.CategoryName, &b.Genre,
		&b.PageCount, &b.PageEstimated, &b.Link, &raw, &b.CreatedAt, &b.UpdatedAt,
	)
	if len(raw) > 0 {
		b.Raw = raw
	}
	return b, err
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, isbn13 string) (External, error) {
	query := `SELECT ` + externalColumns + ` FROM book_external WHERE isbn13 = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanExternal(r.db.QueryRow(timeoutCtx, query, isbn13))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return External{}, ErrNotFound
		}
		return External{}, err
	}
	return b, nil
}

// Upsert keeps the first created_at and refreshes everything else.
func (r *PostgresRepo) Upsert(ctx context.Context, b *External) error {
	const sql = `
		INSERT INTO book_external (isbn13, isbn10, item_id, title, author, publisher, pub_date, summary,
		                           price_sales, price_standard, review_rank, cover_url, category_id, category_name, genre,
		                           page_count, page_estimated, link, raw, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, NOW(), NOW())
		ON CONFLICT (isbn13) DO UPDATE SET
			isbn10 = EXCLUDED.isbn10,
			item_id = EXCLUDED.item_id,
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			publisher = EXCLUDED.publisher,
			pub_date = EXCLUDED.pub_date,
			summary = EXCLUDED.summary,
			price_sales = EXCLUDED.price_sales,
			price_standard = EXCLUDED.price_standard,
			review_rank = EXCLUDED.review_rank,
			cover_url = EXCLUDED.cover_url,
			category_id = EXCLUDED.category_id,
			category_name = EXCLUDED.category_name,
			genre = EXCLUDED.genre,
			page_count = EXCLUDED.page_count,
			page_estimated = EXCLUDED.page_estimated,
			link = EXCLUDED.link,
			raw = COALESCE(EXCLUDED.raw, book_external.raw),
			updated_at = NOW()
		RETURNING created_at, updated_at`

	var raw any
	if len(b.Raw) > 0 {
		raw = []byte(b.Raw)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql,
		b.ISBN13, b.ISBN10, b.ItemID, b.Title, b.Author, b.Publisher, b.PubDate, b.Summary,
		b.PriceSales, b.PriceStandard, b.ReviewRank, b.CoverURL, b.CategoryID, b.CategoryName, b.Genre,
		b.PageCount, b.PageEstimated, b.Link, raw,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) ([]External, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("genre = $%d", argn))
		args = append(args, q.Genre)
		argn++
	}
	if q.CategoryID > 0 {
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", argn))
		args = append(args, q.CategoryID)
		argn++
	}
	where := "WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM book_external "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`SELECT %s FROM book_external %s ORDER BY updated_at DESC, isbn13 LIMIT $%d OFFSET $%d`,
		externalColumns, where, argn, argn+1)
	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []External{}
	for rows.Next() {
		b, err := scanExternal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
