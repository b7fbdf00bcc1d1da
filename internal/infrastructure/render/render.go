package render

import (
	"context"
	"fmt"
	"strings"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// ReportRenderer produces the downloadable plain-text report for a completed
// analysis. The artifact is served as-is by the report endpoint.
type ReportRenderer struct{}

var _ ports.Renderer = (*ReportRenderer)(nil)

// NewReportRenderer builds the renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

// Render formats the result set into the report artifact.
func (r *ReportRenderer) Render(ctx context.Context, rs domain.ResultSet) ([]byte, error) {
	var b strings.Builder

	title := "Sentiment Analysis Report"
	if rs.CompanyName != "" {
		title = fmt.Sprintf("Sentiment Analysis Report - %s", rs.CompanyName)
	}
	writeHeading(&b, title, '=')
	fmt.Fprintf(&b, "Job: %s\n", rs.JobID)
	if !rs.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", rs.CreatedAt.Format("2006-01-02 15:04 MST"))
	}
	b.WriteString("\n")

	writeHeading(&b, "Overview", '-')
	fmt.Fprintf(&b, "Total reviews analyzed: %d\n", rs.Stats.Total)
	fmt.Fprintf(&b, "  Positive: %d%s\n", rs.Stats.Positive, percent(rs.Stats.Positive, rs.Stats.Total))
	fmt.Fprintf(&b, "  Negative: %d%s\n", rs.Stats.Negative, percent(rs.Stats.Negative, rs.Stats.Total))
	fmt.Fprintf(&b, "  Neutral:  %d%s\n", rs.Stats.Neutral, percent(rs.Stats.Neutral, rs.Stats.Total))
	b.WriteString("\n")

	for _, sentiment := range domain.Sentiments {
		section := rs.Section(sentiment)
		if section.Summary == "" && len(section.TopWords) == 0 && len(section.Representatives) == 0 {
			continue
		}

		writeHeading(&b, capitalize(string(sentiment))+" Feedback", '-')
		if section.Summary != "" {
			b.WriteString(section.Summary)
			b.WriteString("\n")
		}
		if len(section.TopWords) > 0 {
			b.WriteString("Keywords: ")
			words := make([]string, len(section.TopWords))
			for i, wc := range section.TopWords {
				words[i] = fmt.Sprintf("%s (%d)", wc.Word, wc.Count)
			}
			b.WriteString(strings.Join(words, ", "))
			b.WriteString("\n")
		}
		for _, item := range section.Representatives {
			fmt.Fprintf(&b, "  * %q\n", item.Text)
		}
		b.WriteString("\n")
	}

	if rs.Recommendations != "" {
		writeHeading(&b, "Recommendations", '-')
		b.WriteString(rs.Recommendations)
		b.WriteString("\n\n")
	}

	if rs.Risk.Level != "" && rs.Risk.Level != "unknown" {
		writeHeading(&b, "Risk Assessment", '-')
		fmt.Fprintf(&b, "Risk level: %s\n", rs.Risk.Level)
		fmt.Fprintf(&b, "Estimated insurance cost: %.2f\n", rs.Risk.Cost)
		if rs.Risk.Notes != "" {
			b.WriteString(rs.Risk.Notes)
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

func writeHeading(b *strings.Builder, text string, underline rune) {
	b.WriteString(text)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(string(underline), len(text)))
	b.WriteString("\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func percent(part, total int) string {
	if total == 0 {
		return ""
	}
	return fmt.Sprintf(" (%.1f%%)", 100*float64(part)/float64(total))
}
