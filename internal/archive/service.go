package archive

import (
	"context"
	"fmt"
	"math"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard collects the archive of userID. A zero year means the current one.
func (s *Service) Dashboard(ctx context.Context, userID string, year int) (Dashboard, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 1900 || year > 9999 {
		return Dashboard{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	shelf, err := s.repo.ShelfCounts(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	reviews, err := s.repo.ReviewStats(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	reviews.AverageRating = math.Round(reviews.AverageRating*10) / 10

	emotions, err := s.repo.TopTags(ctx, userID, TagEmotion, TopTagLimit)
	if err != nil {
		return Dashboard{}, err
	}
	topics, err := s.repo.TopTags(ctx, userID, TagTopic, TopTagLimit)
	if err != nil {
		return Dashboard{}, err
	}
	byMonth, err := s.repo.CompletedByMonth(ctx, userID, year)
	if err != nil {
		return Dashboard{}, err
	}

	months := make([]MonthCount, 12)
	total := 0
	for i := range months {
		n := byMonth[i+1]
		months[i] = MonthCount{Month: i + 1, Count: n}
		total += n
	}

	return Dashboard{
		Shelf:            shelf,
		TotalBooks:       shelf.Total(),
		Reviews:          reviews,
		TopEmotions:      nonNil(emotions),
		TopTopics:        nonNil(topics),
		Year:             year,
		CompletedInYear:  total,
		CompletedByMonth: months,
	}, nil
}

func nonNil(tags []TagCount) []TagCount {
	if tags == nil {
		return []TagCount{}
	}
	return tags
}
