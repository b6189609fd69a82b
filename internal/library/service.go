package library

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookmood/internal/book"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	books BookLookup
	now   func() time.Time
}

func NewService(repo Repository, books BookLookup) *Service {
	return &Service{repo: repo, books: books, now: time.Now}
}

// Add puts a book in the library, either on the wishlist or on a shelf.
// The book is looked up first so it is in the cache.
func (s *Service) Add(ctx context.Context, userID, isbn string, wishlist bool, status Status) (Item, error) {
	b, err := s.books.Lookup(ctx, isbn)
	if err != nil {
		return Item{}, err
	}

	if _, err := s.repo.GetByISBN(ctx, userID, b.ISBN13); err == nil {
		return Item{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return Item{}, err
	}

	var it Item
	if wishlist {
		it = NewWishlistItem(userID, b.ISBN13)
	} else {
		if status == "" {
			status = StatusWantToRead
		}
		if it, err = NewShelfItem(userID, b.ISBN13, status, s.now()); err != nil {
			return Item{}, err
		}
	}
	if err := Validate(it); err != nil {
		return Item{}, err
	}
	if err := s.repo.Create(ctx, &it); err != nil {
		return Item{}, err
	}
	it.Book = summaryOf(b)
	return it, nil
}

func summaryOf(b book.External) *BookSummary {
	return &BookSummary{Title: b.Title, Author: b.Author, CoverURL: b.CoverURL, PageCount: b.PageCount, Genre: b.Genre}
}

// StartReading shelves the book as reading, adding it if the user has no item yet.
func (s *Service) StartReading(ctx context.Context, userID, isbn string) (Item, error) {
	isbn13, err := book.NormalizeISBN13(isbn)
	if err != nil {
		return Item{}, err
	}
	it, err := s.repo.GetByISBN(ctx, userID, isbn13)
	if errors.Is(err, ErrNotFound) {
		return s.Add(ctx, userID, isbn13, false, StatusReading)
	}
	if err != nil {
		return Item{}, err
	}
	return s.save(ctx, it, func(it Item) (Item, error) {
		return SetStatus(it, StatusReading, s.now())
	})
}

// Get reports ids that are not UUIDs as not found.
func (s *Service) Get(ctx context.Context, userID, id string) (Item, error) {
	if uuid.Validate(id) != nil {
		return Item{}, ErrNotFound
	}
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Item, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) UpdateProgress(ctx context.Context, userID, id string, progress int) (Item, error) {
	return s.mutate(ctx, userID, id, func(it Item) (Item, error) {
		return UpdateProgress(it, progress, s.now())
	})
}

func (s *Service) SetStatus(ctx context.Context, userID, id string, status Status) (Item, error) {
	return s.mutate(ctx, userID, id, func(it Item) (Item, error) {
		return SetStatus(it, status, s.now())
	})
}

func (s *Service) Complete(ctx context.Context, userID, id string) (Item, error) {
	return s.mutate(ctx, userID, id, func(it Item) (Item, error) {
		return Complete(it, s.now())
	})
}

func (s *Service) MoveToWishlist(ctx context.Context, userID, id string) (Item, error) {
	return s.mutate(ctx, userID, id, func(it Item) (Item, error) {
		return MoveToWishlist(it), nil
	})
}

// Details carries the free-form fields. Nil means unchanged.
type Details struct {
	Note       *string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

func (s *Service) UpdateDetails(ctx context.Context, userID, id string, d Details) (Item, error) {
	return s.mutate(ctx, userID, id, func(it Item) (Item, error) {
		if d.Note != nil {
			it.Note = strings.TrimSpace(*d.Note)
		}
		if d.StartedAt == nil && d.FinishedAt == nil {
			return it, nil
		}
		return SetDates(it, d.StartedAt, d.FinishedAt)
	})
}

func (s *Service) Remove(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) mutate(ctx context.Context, userID, id string, apply func(Item) (Item, error)) (Item, error) {
	it, err := s.Get(ctx, userID, id)
	if err != nil {
		return Item{}, err
	}
	return s.save(ctx, it, apply)
}

func (s *Service) save(ctx context.Context, it Item, apply func(Item) (Item, error)) (Item, error) {
	next, err := apply(it)
	if err != nil {
		return Item{}, err
	}
	if err := Validate(next); err != nil {
		return Item{}, err
	}
	if err := s.repo.Update(ctx, &next); err != nil {
		return Item{}, err
	}
	return next, nil
}
