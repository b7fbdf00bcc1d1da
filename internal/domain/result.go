package domain

import "time"

// Sentiment is a classification label assigned to one review.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists all labels in presentation order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// ClassifiedItem is a single review text with its predicted label.
type ClassifiedItem struct {
	Text       string    `json:"text"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// Statistics aggregates label counts over a completed analysis.
type Statistics struct {
	Total    int `json:"total_reviews"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// WordCount is one keyword with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SentimentSection bundles the narrative produced for one label.
type SentimentSection struct {
	Summary         string           `json:"summary"`
	TopWords        []WordCount      `json:"top_words,omitempty"`
	Representatives []ClassifiedItem `json:"representatives,omitempty"`
}

// RiskAssessment is the indicative risk scoring derived from the sentiment
// distribution.
type RiskAssessment struct {
	Level string  `json:"risk_level"`
	Score float64 `json:"risk_score"`
	Cost  float64 `json:"insurance_cost"`
	Notes string  `json:"notes,omitempty"`
}

// ResultSet is the immutable bundle a completed job leaves behind. It is
// written once by the stage runner and read-only afterwards.
type ResultSet struct {
	JobID           string                         `json:"job_id"`
	CompanyName     string                         `json:"company_name,omitempty"`
	Items           []ClassifiedItem               `json:"items"`
	Stats           Statistics                     `json:"statistics"`
	Sections        map[Sentiment]SentimentSection `json:"sections"`
	Recommendations string                         `json:"recommendations,omitempty"`
	Risk            RiskAssessment                 `json:"risk"`
	Report          []byte                         `json:"-"`
	CreatedAt       time.Time                      `json:"created_at"`
}

// Section returns the narrative for the given label, or a zero value.
func (r ResultSet) Section(s Sentiment) SentimentSection {
	if r.Sections == nil {
		return SentimentSection{}
	}
	return r.Sections[s]
}
