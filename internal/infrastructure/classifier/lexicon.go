package classifier

import (
	"context"
	"strings"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// Lexicon is a keyword-based fallback classifier used when no inference
// service is configured. It counts positive and negative cue words and labels
// each text by the dominant polarity.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var _ ports.Classifier = (*Lexicon)(nil)

var positiveWords = []string{
	"good", "great", "excellent", "wonderful", "amazing", "outstanding",
	"fantastic", "lovely", "best", "friendly", "delicious", "fresh",
	"generous", "fair", "reliable", "creative", "gem", "recommend",
	"perfect", "happy", "love", "enjoyed", "spot",
}

var negativeWords = []string{
	"bad", "terrible", "terribly", "awful", "horrible", "disappointing",
	"disappointed", "slow", "cold", "lukewarm", "wrong", "loud", "crammed",
	"overwhelmed", "waited", "forgot", "forgotten", "rude", "dirty",
	"never", "worst", "poor", "refund",
}

// NewLexicon builds the fallback classifier with the built-in word lists.
func NewLexicon() *Lexicon {
	l := &Lexicon{
		positive: make(map[string]struct{}, len(positiveWords)),
		negative: make(map[string]struct{}, len(negativeWords)),
	}
	for _, w := range positiveWords {
		l.positive[w] = struct{}{}
	}
	for _, w := range negativeWords {
		l.negative[w] = struct{}{}
	}
	return l
}

// Classify labels each text by counting lexicon hits.
func (l *Lexicon) Classify(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error) {
	items := make([]domain.ClassifiedItem, len(texts))
	for i, text := range texts {
		sentiment, confidence := l.score(text)
		items[i] = domain.ClassifiedItem{Text: text, Sentiment: sentiment, Confidence: confidence}
	}
	return items, nil
}

func (l *Lexicon) score(text string) (domain.Sentiment, float64) {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")
		if _, ok := l.positive[word]; ok {
			pos++
		}
		if _, ok := l.negative[word]; ok {
			neg++
		}
	}

	total := pos + neg
	switch {
	case total == 0 || pos == neg:
		return domain.SentimentNeutral, 0.5
	case pos > neg:
		return domain.SentimentPositive, confidenceFor(pos, total)
	default:
		return domain.SentimentNegative, confidenceFor(neg, total)
	}
}

func confidenceFor(hits, total int) float64 {
	c := 0.5 + 0.5*float64(hits)/float64(total)
	if c > 0.95 {
		c = 0.95
	}
	return c
}
