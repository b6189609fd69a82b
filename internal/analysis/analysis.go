// Package analysis turns a review memo into emotions, topics, a mood summary
// and an estimated rating. The heuristic path is pure and deterministic; the
// LLM path is optional and always falls back to the heuristic.
package analysis

// Sentiment is the coarse polarity of a review text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three known polarities.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Source records which analyzer produced a Result.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceLLM       Source = "llm"
)

// MaxEmotions caps the merged emotion list stored with a review.
const MaxEmotions = 5

// Input is everything the analysis needs about one review.
type Input struct {
	ReviewText       string   `json:"review_text"`
	BookTitle        string   `json:"book_title"`
	BookSummary      string   `json:"book_summary"`
	SelectedEmotions []string `json:"selected_emotions"`
}

// Result is the structured analysis attached to a review.
type Result struct {
	Emotions     []string  `json:"emotions"`
	TextEmotions []string  `json:"text_emotions,omitempty"`
	BookEmotions []string  `json:"book_emotions,omitempty"`
	Topics       []string  `json:"topics"`
	Sentiment    Sentiment `json:"sentiment"`
	MoodSummary  string    `json:"mood_summary"`
	Rating       float64   `json:"rating"`
	Source       Source    `json:"source"`
}
