package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var embeddedLexicon []byte

// Entry maps one label to the substrings that trigger it.
type Entry struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon holds every keyword table used by the heuristic analysis.
// Tables are ordered slices so matched labels come back in file order.
type Lexicon struct {
	SummaryMinRunes int      `yaml:"summary_min_runes"`
	DefaultEmotions []string `yaml:"default_emotions"`
	DefaultTopics   []string `yaml:"default_topics"`
	PositiveWords   []string `yaml:"positive_words"`
	NegativeWords   []string `yaml:"negative_words"`
	Emotions        []Entry  `yaml:"emotions"`
	SummaryEmotions []Entry  `yaml:"summary_emotions"`
	Topics          []Entry  `yaml:"topics"`
}

var (
	ErrInvalidLexicon = errors.New("invalid lexicon")

	defaultLexicon = sync.OnceValue(func() *Lexicon {
		lex, err := ParseLexicon(embeddedLexicon)
		if err != nil {
			panic(fmt.Sprintf("analysis: embedded lexicon: %v", err))
		}
		return lex
	})
)

// DefaultLexicon returns the embedded tables, parsed once per process.
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// LoadLexicon reads a YAML lexicon from disk. An empty path yields the embedded one.
func LoadLexicon(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a YAML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}
	if err := lex.validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

func (l *Lexicon) validate() error {
	if len(l.DefaultEmotions) == 0 {
		return fmt.Errorf("%w: default_emotions must not be empty", ErrInvalidLexicon)
	}
	if len(l.DefaultTopics) == 0 {
		return fmt.Errorf("%w: default_topics must not be empty", ErrInvalidLexicon)
	}
	if l.SummaryMinRunes < 0 {
		return fmt.Errorf("%w: summary_min_runes must not be negative", ErrInvalidLexicon)
	}
	for name, table := range map[string][]Entry{
		"emotions":         l.Emotions,
		"summary_emotions": l.SummaryEmotions,
		"topics":           l.Topics,
	} {
		for i, e := range table {
			if strings.TrimSpace(e.Label) == "" {
				return fmt.Errorf("%w: %s[%d] has no label", ErrInvalidLexicon, name, i)
			}
			for _, kw := range e.Keywords {
				// An empty keyword would match every text.
				if kw == "" {
					return fmt.Errorf("%w: %s[%d] (%s) has an empty keyword", ErrInvalidLexicon, name, i, e.Label)
				}
			}
		}
	}
	for _, w := range append(append([]string{}, l.PositiveWords...), l.NegativeWords...) {
		if w == "" {
			return fmt.Errorf("%w: sentiment word lists contain an empty word", ErrInvalidLexicon)
		}
	}
	return nil
}

// matchLabels returns the labels of every entry with at least one keyword in text.
func matchLabels(table []Entry, text string) []string {
	var out []string
	for _, e := range table {
		for _, kw := range e.Keywords {
			if strings.Contains(text, kw) {
				out = append(out, e.Label)
				break
			}
		}
	}
	return out
}

// countContained counts how many words of the list occur in text.
func countContained(words []string, text string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}
