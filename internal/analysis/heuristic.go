package analysis

import (
	"strings"
	"unicode/utf8"
)

// Heuristic is the keyword-based analyzer used whenever the LLM is not.
type Heuristic struct {
	lex  *Lexicon
	mood MoodSummarizer
}

// NewHeuristic wires a lexicon and a mood strategy. Nil arguments fall back
// to the embedded lexicon and the template summarizer.
func NewHeuristic(lex *Lexicon, mood MoodSummarizer) *Heuristic {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if mood == nil {
		mood = TemplateSummarizer{}
	}
	return &Heuristic{lex: lex, mood: mood}
}

// Lexicon exposes the tables in use.
func (h *Heuristic) Lexicon() *Lexicon { return h.lex }

// Analyze runs the whole keyword pipeline. It has no side effects.
func (h *Heuristic) Analyze(in Input) Result {
	text := strings.TrimSpace(in.ReviewText)

	textEmotions, sentiment := TagEmotions(h.lex, text)
	bookEmotions := ExtractBookEmotions(h.lex, in.BookSummary)
	emotions := MergeEmotions(MaxEmotions, in.SelectedEmotions, textEmotions, bookEmotions)
	topics := ExtractTopics(h.lex, text, in.BookSummary)

	runes := utf8.RuneCountInString(text)
	return Result{
		Emotions:     emotions,
		TextEmotions: textEmotions,
		BookEmotions: bookEmotions,
		Topics:       topics,
		Sentiment:    sentiment,
		MoodSummary: h.mood.Summarize(MoodInput{
			Emotions:  emotions,
			Sentiment: sentiment,
			TextRunes: runes,
			BookTitle: in.BookTitle,
		}),
		Rating: EstimateRating(sentiment, runes, len(emotions)),
		Source: SourceHeuristic,
	}
}
