package pipeline

import (
	"sort"
	"strings"

	"ReviewPulse/internal/domain"
)

func computeStats(items []domain.ClassifiedItem) domain.Statistics {
	stats := domain.Statistics{Total: len(items)}
	for _, item := range items {
		switch item.Sentiment {
		case domain.SentimentPositive:
			stats.Positive++
		case domain.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}
	return stats
}

func itemsFor(items []domain.ClassifiedItem, sentiment domain.Sentiment) []domain.ClassifiedItem {
	var out []domain.ClassifiedItem
	for _, item := range items {
		if item.Sentiment == sentiment {
			out = append(out, item)
		}
	}
	return out
}

// representatives returns the n highest-confidence items of a group.
func representatives(items []domain.ClassifiedItem, n int) []domain.ClassifiedItem {
	sorted := make([]domain.ClassifiedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "was": {}, "were": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "they": {}, "have": {}, "had": {}, "but": {},
	"not": {}, "you": {}, "our": {}, "are": {}, "very": {}, "there": {},
	"all": {}, "its": {}, "out": {}, "too": {}, "when": {}, "from": {},
	"will": {}, "would": {}, "been": {}, "your": {}, "their": {}, "which": {},
}

// topWords counts keyword frequency across a group, skipping stopwords and
// words shorter than three runes.
func topWords(items []domain.ClassifiedItem, n int) []domain.WordCount {
	counts := map[string]int{}
	for _, item := range items {
		for _, word := range strings.FieldsFunc(strings.ToLower(item.Text), func(r rune) bool {
			return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
		}) {
			if len(word) < 3 {
				continue
			}
			if _, skip := stopwords[word]; skip {
				continue
			}
			counts[word]++
		}
	}

	out := make([]domain.WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, domain.WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

const riskBaseRate = 5000.0

// computeRisk derives an indicative risk band and premium from the negative
// share of the distribution.
func computeRisk(stats domain.Statistics) domain.RiskAssessment {
	if stats.Total == 0 {
		return domain.RiskAssessment{Level: "unknown", Notes: "no classified reviews"}
	}

	ratio := float64(stats.Negative) / float64(stats.Total)

	level, multiplier := "low", 1.0
	switch {
	case ratio >= 0.5:
		level, multiplier = "critical", 4.0
	case ratio >= 0.25:
		level, multiplier = "high", 2.5
	case ratio >= 0.1:
		level, multiplier = "medium", 1.5
	}

	return domain.RiskAssessment{
		Level: level,
		Score: ratio,
		Cost:  riskBaseRate * multiplier,
	}
}
