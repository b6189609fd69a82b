package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

const itemSelect = `
	SELECT li.id, li.user_id, li.isbn13, li.wishlist, li.status, li.progress,
	       li.started_at, li.finished_at, li.note, li.created_at, li.updated_at,
	       b.title, b.author, b.cover_url, b.page_count, b.genre
	FROM library_items li
	JOIN book_external b ON b.isbn13 = li.isbn13`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var status *string
	var bs BookSummary
	err := row.Scan(
		&it.ID, &it.UserID, &it.ISBN13, &it.Wishlist, &status, &it.Progress,
		&it.StartedAt, &it.FinishedAt, &it.Note, &it.CreatedAt, &it.UpdatedAt,
		&bs.Title, &bs.Author, &bs.CoverURL, &bs.PageCount, &bs.Genre,
	)
	if err != nil {
		return Item{}, err
	}
	if status != nil {
		st := Status(*status)
		it.Status = &st
	}
	it.Book = &bs
	return it, nil
}

func statusArg(s *Status) any {
	if s == nil {
		return nil
	}
	return string(*s)
}

func (r *PostgresRepo) Create(ctx context.Context, it *Item) error {
	const sql = `
		INSERT INTO library_items (user_id, isbn13, wishlist, status, progress, started_at, finished_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		it.UserID, it.ISBN13, it.Wishlist, statusArg(it.Status), it.Progress, it.StartedAt, it.FinishedAt, it.Note,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if postgres.IsUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if postgres.IsCheckViolation(err) {
		return ErrInvalidTransition
	}
	return err
}

func (r *PostgresRepo) get(ctx context.Context, where string, args ...any) (Item, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	it, err := scanItem(r.db.QueryRow(timeoutCtx, itemSelect+" WHERE "+where, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return it, err
}

func (r *PostgresRepo) Get(ctx context.Context, userID, id string) (Item, error) {
	return r.get(ctx, "li.user_id = $1 AND li.id = $2", userID, id)
}

func (r *PostgresRepo) GetByISBN(ctx context.Context, userID, isbn13 string) (Item, error) {
	return r.get(ctx, "li.user_id = $1 AND li.isbn13 = $2", userID, isbn13)
}

func (r *PostgresRepo) Update(ctx context.Context, it *Item) error {
	const sql = `
		UPDATE library_items
		SET wishlist = $3, status = $4, progress = $5, started_at = $6, finished_at = $7, note = $8, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, sql,
		it.UserID, it.ID, it.Wishlist, statusArg(it.Status), it.Progress, it.StartedAt, it.FinishedAt, it.Note,
	).Scan(&it.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case postgres.IsCheckViolation(err):
		return ErrInvalidTransition
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM library_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, f ListFilter) ([]Item, int, error) {
	clauses := []string{"li.user_id = $1"}
	args := []any{f.UserID}
	argn := 2

	if f.Wishlist != nil {
		clauses = append(clauses, fmt.Sprintf("li.wishlist = $%d", argn))
		args = append(args, *f.Wishlist)
		argn++
	}
	if f.Status != nil {
		clauses = append(clauses, fmt.Sprintf("li.status = $%d", argn))
		args = append(args, string(*f.Status))
		argn++
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM library_items li"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := itemSelect + where + fmt.Sprintf(" ORDER BY li.updated_at DESC, li.id LIMIT $%d OFFSET $%d", argn, argn+1)
	rows, err := r.db.Query(timeoutCtx, dataSQL, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}
