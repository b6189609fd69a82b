package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// TextGenerator is any chat-completion style model.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var ErrInvalidLLMResponse = errors.New("invalid llm analysis response")

const systemPrompt = `You analyse Korean book reviews.
Reply with a single JSON object and nothing else:
{"emotions": [string], "topics": [string], "sentiment": "positive"|"negative"|"neutral", "mood_summary": string, "rating": number}
Emotions and topics are short Korean nouns (at most 5 each). rating is between 1.0 and 5.0.
mood_summary is one Korean sentence describing the reader's mood.`

// LLMAnalyzer asks a TextGenerator for the analysis and normalizes the answer.
type LLMAnalyzer struct {
	gen  TextGenerator
	mood MoodSummarizer
}

func NewLLMAnalyzer(gen TextGenerator, mood MoodSummarizer) *LLMAnalyzer {
	if mood == nil {
		mood = TemplateSummarizer{}
	}
	return &LLMAnalyzer{gen: gen, mood: mood}
}

type llmAnalysis struct {
	Emotions    []string `json:"emotions"`
	Topics      []string `json:"topics"`
	Sentiment   string   `json:"sentiment"`
	MoodSummary string   `json:"mood_summary"`
	Rating      float64  `json:"rating"`
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, in Input) (Result, error) {
	raw, err := a.gen.GenerateText(ctx, systemPrompt, buildUserPrompt(in))
	if err != nil {
		return Result{}, err
	}
	return a.parse(raw, in)
}

func buildUserPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Book title: %s\n", strings.TrimSpace(in.BookTitle))
	if s := strings.TrimSpace(in.BookSummary); s != "" {
		fmt.Fprintf(&b, "Book summary: %s\n", s)
	}
	if len(in.SelectedEmotions) > 0 {
		fmt.Fprintf(&b, "Emotions the reader picked: %s\n", strings.Join(in.SelectedEmotions, ", "))
	}
	fmt.Fprintf(&b, "Review:\n%s\n", strings.TrimSpace(in.ReviewText))
	return b.String()
}

func (a *LLMAnalyzer) parse(raw string, in Input) (Result, error) {
	var out llmAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidLLMResponse, err)
	}

	sentiment := Sentiment(strings.ToLower(strings.TrimSpace(out.Sentiment)))
	if !sentiment.Valid() {
		return Result{}, fmt.Errorf("%w: sentiment %q", ErrInvalidLLMResponse, out.Sentiment)
	}
	textEmotions := MergeEmotions(MaxEmotions, out.Emotions)
	if len(textEmotions) == 0 {
		return Result{}, fmt.Errorf("%w: no emotions", ErrInvalidLLMResponse)
	}
	emotions := MergeEmotions(MaxEmotions, in.SelectedEmotions, textEmotions)
	topics := MergeEmotions(MaxEmotions, out.Topics)

	runes := utf8.RuneCountInString(strings.TrimSpace(in.ReviewText))
	summary := strings.TrimSpace(out.MoodSummary)
	if summary == "" {
		summary = a.mood.Summarize(MoodInput{
			Emotions:  emotions,
			Sentiment: sentiment,
			TextRunes: runes,
			BookTitle: in.BookTitle,
		})
	}

	rating := ClampRating(out.Rating)
	if out.Rating == 0 {
		rating = EstimateRating(sentiment, runes, len(emotions))
	}

	return Result{
		Emotions:     emotions,
		TextEmotions: textEmotions,
		Topics:       topics,
		Sentiment:    sentiment,
		MoodSummary:  summary,
		Rating:       rating,
		Source:       SourceLLM,
	}, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
