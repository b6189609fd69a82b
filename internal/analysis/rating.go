package analysis

import "math"

const (
	baseRating = 3.0
	minRating  = 1.0
	maxRating  = 5.0
)

// EstimateRating derives a 1.0-5.0 score from polarity, memo length in runes
// and the number of emotion labels attached to the review.
func EstimateRating(sentiment Sentiment, textRunes, emotionCount int) float64 {
	score := baseRating

	switch sentiment {
	case SentimentPositive:
		score += 0.8
	case SentimentNegative:
		score -= 0.5
	}

	switch {
	case textRunes >= 300:
		score += 1.0
	case textRunes >= 150:
		score += 0.6
	case textRunes >= 50:
		score += 0.3
	}

	switch {
	case emotionCount >= 4:
		score += 0.5
	case emotionCount >= 2:
		score += 0.2
	}

	return ClampRating(score)
}

// ClampRating bounds a score to [1.0, 5.0] and rounds it to one decimal.
func ClampRating(score float64) float64 {
	if math.IsNaN(score) {
		return baseRating
	}
	score = math.Max(minRating, math.Min(maxRating, score))
	return math.Round(score*10) / 10
}
