package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ReviewPulse/internal/ports"
)

const (
	minReviewLength = 15
	maxReviews      = 500
)

// reviewSelectors are tried in order; the first selector that yields content
// wins. The generic paragraph fallback handles pages without review markup.
var reviewSelectors = []string{
	".review",
	".review-container",
	".review-text",
	"[class*='review']",
	"blockquote",
	"p",
}

// HTMLExtractor pulls individual review texts out of a fetched page.
type HTMLExtractor struct{}

var _ ports.Extractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor builds the goquery-backed extractor.
func NewHTMLExtractor() *HTMLExtractor { return &HTMLExtractor{} }

// Extract parses the document and collects distinct text blocks that look
// like reviews.
func (e *HTMLExtractor) Extract(ctx context.Context, doc ports.RawDocument) ([]string, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	for _, selector := range reviewSelectors {
		texts := collect(parsed, selector)
		if len(texts) > 0 {
			return texts, nil
		}
	}
	return nil, nil
}

func collect(doc *goquery.Document, selector string) []string {
	var (
		texts []string
		seen  = map[string]struct{}{}
	)

	doc.Find(selector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := normalizeWhitespace(sel.Text())
		if len(text) < minReviewLength {
			return true
		}
		if _, dup := seen[text]; dup {
			return true
		}
		seen[text] = struct{}{}
		texts = append(texts, text)
		return len(texts) < maxReviews
	})

	return texts
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
