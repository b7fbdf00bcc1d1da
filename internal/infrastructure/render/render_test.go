package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"ReviewPulse/internal/domain"
)

func TestRenderFullReport(t *testing.T) {
	t.Parallel()

	rs := domain.ResultSet{
		JobID:       "job-1",
		CompanyName: "Riverside Bistro",
		Stats:       domain.Statistics{Total: 4, Positive: 2, Negative: 1, Neutral: 1},
		Sections: map[domain.Sentiment]domain.SentimentSection{
			domain.SentimentPositive: {
				Summary:  "Guests praise the food and staff.",
				TopWords: []domain.WordCount{{Word: "food", Count: 3}},
				Representatives: []domain.ClassifiedItem{
					{Text: "Great food!", Sentiment: domain.SentimentPositive},
				},
			},
			domain.SentimentNegative: {
				Summary: "Complaints center on slow service.",
			},
		},
		Recommendations: "Speed up table service during peak hours.",
		Risk:            domain.RiskAssessment{Level: "medium", Score: 1.5, Cost: 7500},
		CreatedAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := NewReportRenderer().Render(context.Background(), rs)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	report := string(out)

	for _, want := range []string{
		"Riverside Bistro",
		"Total reviews analyzed: 4",
		"Positive: 2 (50.0%)",
		"Guests praise the food and staff.",
		"food (3)",
		`"Great food!"`,
		"Complaints center on slow service.",
		"Speed up table service during peak hours.",
		"Risk level: medium",
		"7500.00",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	t.Parallel()

	rs := domain.ResultSet{
		JobID: "job-2",
		Stats: domain.Statistics{Total: 0},
		Risk:  domain.RiskAssessment{Level: "unknown"},
	}

	out, err := NewReportRenderer().Render(context.Background(), rs)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	report := string(out)

	if strings.Contains(report, "Risk Assessment") {
		t.Error("unknown risk should not be rendered")
	}
	if strings.Contains(report, "Recommendations") {
		t.Error("empty recommendations should not be rendered")
	}
	if strings.Contains(report, "(") {
		t.Error("percentages should be omitted when total is zero")
	}
}
