package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookmood/internal/analysis"
	"bookmood/internal/platform/postgres"
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

const reviewSelect = `
	SELECT r.id, r.user_id, r.isbn13, r.memo, r.mood_summary, r.rating, r.sentiment, r.source,
	       r.read_date, r.created_at, r.updated_at,
	       COALESCE((SELECT array_agg(e.emotion ORDER BY e.position) FROM review_emotions e WHERE e.review_id = r.id), '{}') AS emotions,
	       COALESCE((SELECT array_agg(t.topic ORDER BY t.position) FROM review_topics t WHERE t.review_id = r.id), '{}') AS topics,
	       b.title, b.author, b.cover_url
	FROM reviews r
	JOIN book_external b ON b.isbn13 = r.isbn13`

func scanReview(row pgx.Row) (Review, error) {
	var rv Review
	var sentiment, source string
	var bs BookSummary
	err := row.Scan(
		&rv.ID, &rv.UserID, &rv.ISBN13, &rv.Memo, &rv.MoodSummary, &rv.Rating, &sentiment, &source,
		&rv.ReadDate, &rv.CreatedAt, &rv.UpdatedAt,
		&rv.Emotions, &rv.Topics,
		&bs.Title, &bs.Author, &bs.CoverURL,
	)
	if err != nil {
		return Review{}, err
	}
	rv.Sentiment = analysis.Sentiment(sentiment)
	rv.Source = analysis.Source(source)
	rv.Book = &bs
	return rv, nil
}

// Create inserts the review row and its label rows in one transaction.
func (r *PostgresRepo) Create(ctx context.Context, rv *Review) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(timeoutCtx) }()

	const insertReview = `
		INSERT INTO reviews (id, user_id, isbn13, memo, mood_summary, rating, sentiment, source, read_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err = tx.QueryRow(timeoutCtx, insertReview,
		rv.ID, rv.UserID, rv.ISBN13, rv.Memo, rv.MoodSummary, rv.Rating, string(rv.Sentiment), string(rv.Source), rv.ReadDate,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return &DuplicateError{}
		}
		return err
	}

	batch := &pgx.Batch{}
	for i, e := range rv.Emotions {
		batch.Queue(`INSERT INTO review_emotions (review_id, emotion, position) VALUES ($1, $2, $3)`, rv.ID, e, i)
	}
	for i, t := range rv.Topics {
		batch.Queue(`INSERT INTO review_topics (review_id, topic, position) VALUES ($1, $2, $3)`, rv.ID, t, i)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(timeoutCtx, batch).Close(); err != nil {
			return fmt.Errorf("insert review labels: %w", err)
		}
	}

	return tx.Commit(timeoutCtx)
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, args ...any) (Review, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rv, err := scanReview(r.db.QueryRow(timeoutCtx, reviewSelect+" WHERE "+where, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return rv, err
}

func (r *PostgresRepo) FindByUserAndISBN(ctx context.Context, userID, isbn13 string) (Review, error) {
	return r.getOne(ctx, "r.user_id = $1 AND r.isbn13 = $2", userID, isbn13)
}

func (r *PostgresRepo) Get(ctx context.Context, userID, id string) (Review, error) {
	return r.getOne(ctx, "r.user_id = $1 AND r.id = $2", userID, id)
}

func (r *PostgresRepo) collect(rows pgx.Rows) ([]Review, error) {
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByUser pages newest first using the (created_at, id) keyset.
func (r *PostgresRepo) ListByUser(ctx context.Context, userID string, after Cursor, limit int) ([]Review, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if after.IsZero() {
		rows, err := r.db.Query(timeoutCtx,
			reviewSelect+` WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2`,
			userID, limit)
		if err != nil {
			return nil, err
		}
		return r.collect(rows)
	}

	rows, err := r.db.Query(timeoutCtx,
		reviewSelect+` WHERE r.user_id = $1 AND (r.created_at, r.id) < ($2, $3)
		ORDER BY r.created_at DESC, r.id DESC LIMIT $4`,
		userID, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, isbn13 string, limit, offset int) ([]Review, int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM reviews WHERE isbn13 = $1`, isbn13).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(timeoutCtx,
		reviewSelect+` WHERE r.isbn13 = $1 ORDER BY r.created_at DESC, r.id DESC LIMIT $2 OFFSET $3`,
		isbn13, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	reviews, err := r.collect(rows)
	return reviews, total, err
}

// Update only touches the editable columns.
func (r *PostgresRepo) Update(ctx context.Context, rv *Review) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, `
		UPDATE reviews SET memo = $3, read_date = $4, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at`,
		rv.UserID, rv.ID, rv.Memo, rv.ReadDate,
	).Scan(&rv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM reviews WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
