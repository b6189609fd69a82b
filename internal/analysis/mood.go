package analysis

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// MoodInput is what a MoodSummarizer needs to describe a review.
type MoodInput struct {
	Emotions  []string
	Sentiment Sentiment
	TextRunes int
	BookTitle string
}

// MoodSummarizer writes the one-sentence mood summary stored with a review.
type MoodSummarizer interface {
	Summarize(in MoodInput) string
}

// TemplateSummarizer fills a fixed sentence template. Same input, same output.
type TemplateSummarizer struct{}

var sentimentClauses = map[Sentiment]string{
	SentimentPositive: "긍정적인 여운이 오래 남는 독서였어요.",
	SentimentNegative: "마음 한편이 무거워지는 독서였어요.",
	SentimentNeutral:  "담담하게 곱씹어 볼 만한 독서였어요.",
}

func (TemplateSummarizer) Summarize(in MoodInput) string {
	emotions := in.Emotions
	if len(emotions) > 3 {
		emotions = emotions[:3]
	}
	feeling := "여러 가지"
	if len(emotions) > 0 {
		feeling = strings.Join(emotions, "·")
	}

	clause, ok := sentimentClauses[in.Sentiment]
	if !ok {
		clause = sentimentClauses[SentimentNeutral]
	}

	return fmt.Sprintf("%s을(를) 읽으며 느낀 %s의 감정을 %s 기록했어요. %s",
		bookRef(in.BookTitle), feeling, lengthAdverb(in.TextRunes), clause)
}

func lengthAdverb(runes int) string {
	switch {
	case runes < 30:
		return "짧게"
	case runes < 120:
		return "차분하게"
	default:
		return "깊이 있게"
	}
}

func bookRef(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "이 책"
	}
	return "「" + title + "」"
}

// CannedSummarizer picks one of five stock sentences at random. It ignores
// emotions and sentiment and is not used by default. It is safe for
// concurrent use.
type CannedSummarizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCannedSummarizer uses rng for its choices; nil seeds a fresh PCG source.
func NewCannedSummarizer(rng *rand.Rand) *CannedSummarizer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &CannedSummarizer{rng: rng}
}

var cannedSentences = [...]string{
	"%s은(는) 마음에 작은 파문을 남긴 책이에요.",
	"%s와(과) 함께한 시간이 오래 기억에 남을 것 같아요.",
	"%s을(를) 덮은 뒤에도 생각이 이어졌어요.",
	"%s 속 문장들이 하루를 천천히 물들였어요.",
	"%s은(는) 지금의 나에게 꼭 필요한 이야기였어요.",
}

func (c *CannedSummarizer) Summarize(in MoodInput) string {
	c.mu.Lock()
	i := c.rng.IntN(len(cannedSentences))
	c.mu.Unlock()
	return fmt.Sprintf(cannedSentences[i], bookRef(in.BookTitle))
}
