package library

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("library item not found")
	ErrAlreadyExists     = errors.New("book is already in the library")
	ErrInvalidStatus     = errors.New("invalid shelf status")
	ErrInvalidProgress   = errors.New("progress must be between 0 and 100")
	ErrInvalidDates      = errors.New("finish date is before start date")
	ErrInvalidTransition = errors.New("invalid library item transition")
)

// Status is the shelf a non-wishlist item sits on.
type Status string

const (
	StatusReading    Status = "reading"
	StatusCompleted  Status = "completed"
	StatusWantToRead Status = "want_to_read"
	StatusPaused     Status = "paused"
	StatusDropped    Status = "dropped"
)

var Statuses = []Status{StatusReading, StatusCompleted, StatusWantToRead, StatusPaused, StatusDropped}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Item links a user to a cached book. A wishlist item has no status and
// zero progress.
type Item struct {
	ID         string
	UserID     string
	ISBN13     string
	Wishlist   bool
	Status     *Status
	Progress   int
	StartedAt  *time.Time
	FinishedAt *time.Time
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Book is filled by list and get queries.
	Book *BookSummary
}

// BookSummary is the part of book_external shown next to a library item.
type BookSummary struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	CoverURL  string `json:"cover_url"`
	PageCount int    `json:"page_count"`
	Genre     string `json:"genre"`
}

// ListFilter selects either the wishlist or one shelf. A zero filter lists
// everything.
type ListFilter struct {
	UserID   string
	Wishlist *bool
	Status   *Status
	Limit    int
	Offset   int
}
