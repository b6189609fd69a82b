package review

import (
	"errors"
	"fmt"
	"time"

	"bookmood/internal/analysis"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrDuplicate     = errors.New("review already exists for this book")
	ErrEmptyMemo     = errors.New("review memo is empty")
	ErrMemoTooLong   = errors.New("review memo is too long")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// MaxMemoRunes bounds the memo length accepted on submit and edit.
const MaxMemoRunes = 5000

// DuplicateError carries the id of the review the user already wrote.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s (id %s)", ErrDuplicate, e.ExistingID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Review is one user's reaction to one book.
type Review struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	ISBN13      string             `json:"isbn13"`
	Memo        string             `json:"memo"`
	Emotions    []string           `json:"emotions"`
	Topics      []string           `json:"topics"`
	MoodSummary string             `json:"mood_summary"`
	Rating      float64            `json:"rating"`
	Sentiment   analysis.Sentiment `json:"sentiment"`
	Source      analysis.Source    `json:"analysis_source"`
	ReadDate    *time.Time         `json:"read_date"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Book        *BookSummary       `json:"book,omitempty"`
}

type BookSummary struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"cover_url"`
}

type SubmitInput struct {
	ISBN             string
	Memo             string
	SelectedEmotions []string
	ReadDate         *time.Time
}

// UpdateInput edits a review without re-running the analysis. Nil fields
// are left alone.
type UpdateInput struct {
	Memo     *string
	ReadDate *time.Time
}
