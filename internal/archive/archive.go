package archive

import "errors"

var ErrInvalidYear = errors.New("year out of range")

// TopTagLimit bounds the emotion and topic rankings on the dashboard.
const TopTagLimit = 5

type ShelfCounts struct {
	Wishlist   int `json:"wishlist"`
	WantToRead int `json:"want_to_read"`
	Reading    int `json:"reading"`
	Completed  int `json:"completed"`
	Paused     int `json:"paused"`
	Dropped    int `json:"dropped"`
}

func (c ShelfCounts) Total() int {
	return c.Wishlist + c.WantToRead + c.Reading + c.Completed + c.Paused + c.Dropped
}

type TagCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// ReviewStats aggregates every review a user wrote.
type ReviewStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// Dashboard is the reading archive of one user.
type Dashboard struct {
	Shelf            ShelfCounts  `json:"shelf"`
	TotalBooks       int          `json:"total_books"`
	Reviews          ReviewStats  `json:"reviews"`
	TopEmotions      []TagCount   `json:"top_emotions"`
	TopTopics        []TagCount   `json:"top_topics"`
	Year             int          `json:"year"`
	CompletedInYear  int          `json:"completed_in_year"`
	CompletedByMonth []MonthCount `json:"completed_by_month"`
}

// TagKind selects which review tag table a ranking reads.
type TagKind string

const (
	TagEmotion TagKind = "emotion"
	TagTopic   TagKind = "topic"
)
