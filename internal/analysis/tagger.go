package analysis

import (
	"strings"
	"unicode/utf8"
)

// TagEmotions matches text against the emotion table and scores its polarity.
// When nothing matches, the lexicon's default pair is returned instead.
func TagEmotions(lex *Lexicon, text string) ([]string, Sentiment) {
	emotions := matchLabels(lex.Emotions, text)
	if len(emotions) == 0 {
		emotions = append([]string(nil), lex.DefaultEmotions...)
	}
	return emotions, scoreSentiment(lex, text)
}

// scoreSentiment compares how many positive and negative words occur in text.
// A margin of more than one word decides the polarity; a one-sided signal
// with nothing on the other side decides it as well.
func scoreSentiment(lex *Lexicon, text string) Sentiment {
	pos := countContained(lex.PositiveWords, text)
	neg := countContained(lex.NegativeWords, text)
	switch {
	case pos-neg > 1, pos > 0 && neg == 0:
		return SentimentPositive
	case neg-pos > 1, neg > 0 && pos == 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ExtractBookEmotions runs the summary emotion table over a catalog summary.
// Summaries shorter than the lexicon minimum produce nothing.
func ExtractBookEmotions(lex *Lexicon, summary string) []string {
	summary = strings.TrimSpace(summary)
	if summary == "" || utf8.RuneCountInString(summary) < lex.SummaryMinRunes {
		return nil
	}
	return matchLabels(lex.SummaryEmotions, summary)
}

// ExtractTopics scans the review and the summary together for topic keywords.
func ExtractTopics(lex *Lexicon, review, summary string) []string {
	topics := matchLabels(lex.Topics, review+" "+summary)
	if len(topics) == 0 {
		return append([]string(nil), lex.DefaultTopics...)
	}
	return topics
}
