package library

import "time"

// Date truncates t to midnight UTC; library dates carry no time of day.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time {
	d := Date(t)
	return &d
}

func NewWishlistItem(userID, isbn13 string) Item {
	return Item{UserID: userID, ISBN13: isbn13, Wishlist: true}
}

func NewShelfItem(userID, isbn13 string, status Status, today time.Time) (Item, error) {
	it := Item{UserID: userID, ISBN13: isbn13}
	return SetStatus(it, status, today)
}

// SetStatus moves an item onto a shelf, taking it off the wishlist if needed.
func SetStatus(it Item, status Status, today time.Time) (Item, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return it, err
	}

	prev := it.Status
	it.Wishlist = false
	it.Status = &status

	switch status {
	case StatusReading:
		if prev != nil && *prev == StatusCompleted {
			it.Progress = 0
			it.FinishedAt = nil
			it.StartedAt = nil
		}
		if it.StartedAt == nil {
			it.StartedAt = datePtr(today)
		}
	case StatusCompleted:
		it.Progress = 100
		if it.StartedAt == nil {
			it.StartedAt = datePtr(today)
		}
		if it.FinishedAt == nil {
			it.FinishedAt = datePtr(today)
		}
	case StatusWantToRead:
		it.Progress = 0
		it.StartedAt = nil
		it.FinishedAt = nil
	case StatusPaused, StatusDropped:
		if prev != nil && *prev == StatusCompleted {
			it.Progress = 99
			it.FinishedAt = nil
		}
	}
	return it, nil
}

// UpdateProgress records reading progress. Reaching 100 completes the book;
// progress on a wishlist or want-to-read item starts reading it.
func UpdateProgress(it Item, progress int, today time.Time) (Item, error) {
	if progress < 0 || progress > 100 {
		return it, ErrInvalidProgress
	}
	if progress == 100 {
		return SetStatus(it, StatusCompleted, today)
	}

	if it.Wishlist || it.Status == nil || *it.Status == StatusWantToRead || *it.Status == StatusCompleted {
		if progress == 0 && it.Wishlist {
			return it, nil
		}
		started := it.StartedAt
		var err error
		if it, err = SetStatus(it, StatusReading, today); err != nil {
			return it, err
		}
		if started != nil {
			it.StartedAt = started
		}
	}
	it.Progress = progress
	return it, nil
}

func Complete(it Item, today time.Time) (Item, error) {
	return SetStatus(it, StatusCompleted, today)
}

// MoveToWishlist clears shelf state.
func MoveToWishlist(it Item) Item {
	it.Wishlist = true
	it.Status = nil
	it.Progress = 0
	it.StartedAt = nil
	it.FinishedAt = nil
	return it
}

// SetDates overrides the reading dates of a shelved item.
func SetDates(it Item, startedAt, finishedAt *time.Time) (Item, error) {
	if it.Wishlist {
		return it, ErrInvalidTransition
	}
	if startedAt != nil {
		it.StartedAt = datePtr(*startedAt)
	}
	if finishedAt != nil {
		it.FinishedAt = datePtr(*finishedAt)
	}
	if it.StartedAt != nil && it.FinishedAt != nil && it.FinishedAt.Before(*it.StartedAt) {
		return it, ErrInvalidDates
	}
	return it, nil
}

// Validate reports whether it satisfies the shelf rules. Every write goes
// through it.
func Validate(it Item) error {
	if it.Progress < 0 || it.Progress > 100 {
		return ErrInvalidProgress
	}
	if it.Wishlist {
		if it.Status != nil || it.Progress != 0 {
			return ErrInvalidTransition
		}
		return nil
	}
	if it.Status == nil {
		return ErrInvalidTransition
	}
	if _, err := ParseStatus(string(*it.Status)); err != nil {
		return err
	}
	if *it.Status == StatusCompleted && it.Progress != 100 {
		return ErrInvalidTransition
	}
	if it.Progress == 100 && *it.Status != StatusCompleted {
		return ErrInvalidTransition
	}
	if it.StartedAt != nil && it.FinishedAt != nil && it.FinishedAt.Before(*it.StartedAt) {
		return ErrInvalidDates
	}
	return nil
}
