package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmood/internal/analysis"
	"bookmood/internal/book"
)

type Service struct {
	repo     Repository
	books    BookLookup
	analyzer Analyzer
	logger   *zap.Logger
	newID    func() string
}

func NewService(repo Repository, books BookLookup, analyzer Analyzer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		books:    books,
		analyzer: analyzer,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

func normalizeMemo(memo string) (string, error) {
	memo = strings.TrimSpace(memo)
	if memo == "" {
		return "", ErrEmptyMemo
	}
	if utf8.RuneCountInString(memo) > MaxMemoRunes {
		return "", ErrMemoTooLong
	}
	return memo, nil
}

func (s *Service) analyze(ctx context.Context, userID string, b book.External, memo string, selected []string) analysis.Result {
	return s.analyzer.Analyze(ctx, userID, analysis.Input{
		ReviewText:       memo,
		BookTitle:        b.Title,
		BookSummary:      b.Summary,
		SelectedEmotions: selected,
	})
}

// Submit analyses the memo and stores the review in one write. A second
// review of the same book by the same user is refused with a *DuplicateError.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (Review, error) {
	memo, err := normalizeMemo(in.Memo)
	if err != nil {
		return Review{}, err
	}

	b, err := s.books.Lookup(ctx, in.ISBN)
	if err != nil {
		return Review{}, err
	}

	existing, err := s.repo.FindByUserAndISBN(ctx, userID, b.ISBN13)
	if err == nil {
		return Review{}, &DuplicateError{ExistingID: existing.ID}
	}
	if !errors.Is(err, ErrNotFound) {
		return Review{}, fmt.Errorf("check existing review: %w", err)
	}

	res := s.analyze(ctx, userID, b, memo, in.SelectedEmotions)

	rv := Review{
		ID:          s.newID(),
		UserID:      userID,
		ISBN13:      b.ISBN13,
		Memo:        memo,
		Emotions:    res.Emotions,
		Topics:      res.Topics,
		MoodSummary: res.MoodSummary,
		Rating:      res.Rating,
		Sentiment:   res.Sentiment,
		Source:      res.Source,
		ReadDate:    in.ReadDate,
		Book:        &BookSummary{Title: b.Title, Author: b.Author, CoverURL: b.CoverURL},
	}
	if err := s.repo.Create(ctx, &rv); err != nil {
		var dup *DuplicateError
		if errors.As(err, &dup) {
			if existing, findErr := s.repo.FindByUserAndISBN(ctx, userID, b.ISBN13); findErr == nil {
				dup.ExistingID = existing.ID
			}
			return Review{}, dup
		}
		return Review{}, fmt.Errorf("save review: %w", err)
	}

	s.logger.Info("review submitted",
		zap.String("user_id", userID),
		zap.String("isbn", b.ISBN13),
		zap.String("analysis_source", string(res.Source)),
		zap.Int("emotions", len(res.Emotions)),
	)
	return rv, nil
}

// Preview runs the same analysis as Submit without storing anything.
func (s *Service) Preview(ctx context.Context, userID string, in SubmitInput) (analysis.Result, error) {
	memo, err := normalizeMemo(in.Memo)
	if err != nil {
		return analysis.Result{}, err
	}
	b, err := s.books.Lookup(ctx, in.ISBN)
	if err != nil {
		return analysis.Result{}, err
	}
	return s.analyze(ctx, userID, b, memo, in.SelectedEmotions), nil
}

// Get returns ErrNotFound for ids that are not UUIDs without touching storage.
func (s *Service) Get(ctx context.Context, userID, id string) (Review, error) {
	if uuid.Validate(id) != nil {
		return Review{}, ErrNotFound
	}
	return s.repo.Get(ctx, userID, id)
}

// ListMine returns one page of the user's reviews and the cursor of the next
// page, empty when there is none.
func (s *Service) ListMine(ctx context.Context, userID, cursor string, limit int) ([]Review, string, error) {
	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	reviews, err := s.repo.ListByUser(ctx, userID, after, limit+1)
	if err != nil {
		return nil, "", err
	}
	next := ""
	if len(reviews) > limit {
		reviews = reviews[:limit]
		last := reviews[limit-1]
		next = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return reviews, next, nil
}

func (s *Service) ListByBook(ctx context.Context, isbn string, limit, offset int) ([]Review, int, error) {
	isbn13, err := book.NormalizeISBN13(isbn)
	if err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByBook(ctx, isbn13, limit, offset)
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Review, error) {
	rv, err := s.Get(ctx, userID, id)
	if err != nil {
		return Review{}, err
	}
	if in.Memo != nil {
		memo, err := normalizeMemo(*in.Memo)
		if err != nil {
			return Review{}, err
		}
		rv.Memo = memo
	}
	if in.ReadDate != nil {
		rv.ReadDate = in.ReadDate
	}
	if err := s.repo.Update(ctx, &rv); err != nil {
		return Review{}, err
	}
	return rv, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, userID, id)
}
