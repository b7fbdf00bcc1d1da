package chat

import (
	"fmt"
	"strings"

	"ReviewPulse/internal/domain"
)

// buildContextPrompt flattens a result set into the retrieval context handed
// to the LLM: distribution with percentages, per-sentiment summaries, top
// keywords and a few representative examples, then recommendations.
func buildContextPrompt(rs domain.ResultSet) string {
	var parts []string

	stats := rs.Stats
	if stats.Total > 0 {
		pct := func(n int) float64 { return float64(n) / float64(stats.Total) * 100 }
		parts = append(parts, fmt.Sprintf(
			"SENTIMENT DISTRIBUTION:\n- Positive: %d reviews (%.1f%%)\n- Negative: %d reviews (%.1f%%)\n- Neutral: %d reviews (%.1f%%)\n- Total Reviews: %d",
			stats.Positive, pct(stats.Positive),
			stats.Negative, pct(stats.Negative),
			stats.Neutral, pct(stats.Neutral),
			stats.Total))
	}

	for _, sentiment := range domain.Sentiments {
		section := rs.Section(sentiment)
		upper := strings.ToUpper(string(sentiment))

		if section.Summary != "" {
			parts = append(parts, fmt.Sprintf("%s FEEDBACK SUMMARY:\n%s", upper, section.Summary))
		}

		if len(section.TopWords) > 0 {
			words := make([]string, 0, len(section.TopWords))
			for _, w := range section.TopWords {
				words = append(words, fmt.Sprintf("%s (%d)", w.Word, w.Count))
			}
			parts = append(parts, fmt.Sprintf("%s Keywords: %s", upper, strings.Join(words, ", ")))
		}

		if len(section.Representatives) > 0 {
			examples := make([]string, 0, len(section.Representatives))
			for _, rep := range section.Representatives {
				examples = append(examples, fmt.Sprintf("- %q", rep.Text))
			}
			parts = append(parts, fmt.Sprintf("%s Examples:\n%s", upper, strings.Join(examples, "\n")))
		}
	}

	if rs.Recommendations != "" {
		parts = append(parts, "RECOMMENDATIONS:\n"+rs.Recommendations)
	}

	if rs.Risk.Level != "" && rs.Risk.Level != "unknown" {
		parts = append(parts, fmt.Sprintf("RISK ASSESSMENT:\n- Level: %s\n- Negative share: %.1f%%",
			rs.Risk.Level, rs.Risk.Score*100))
	}

	return strings.Join(parts, "\n\n")
}

var baseSuggestions = []string{
	"What are the main issues customers are complaining about?",
	"What do customers like most about the service?",
	"What should we prioritize fixing first?",
	"What percentage of reviews are positive?",
	"What are the common themes in negative reviews?",
	"What improvements would have the biggest impact?",
	"What specific words appear most in negative reviews?",
	"How does the positive feedback compare to negative?",
}

// suggestQuestions customizes the candidate list based on which data the
// result set actually carries, then caps it.
func suggestQuestions(rs domain.ResultSet, max int) []string {
	suggestions := make([]string, 0, len(baseSuggestions)+2)

	if rs.Section(domain.SentimentNegative).Summary != "" {
		suggestions = append(suggestions, "Summarize the negative feedback")
	}
	if rs.Recommendations != "" {
		suggestions = append(suggestions, "What are your top recommendations?")
	}
	suggestions = append(suggestions, baseSuggestions...)

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}
