package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

const maxURLsPerRequest = 5

// URLSource downloads one or more review pages given directly by the caller.
// Multiple URLs (comma- or newline-separated) are fetched in order and their
// bodies concatenated into one document.
type URLSource struct {
	client *http.Client
	logger *slog.Logger
}

// NewURLSource wires an HTTP client; a nil client gets a 20s-timeout default.
func NewURLSource(client *http.Client, logger *slog.Logger) *URLSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &URLSource{client: client, logger: logger}
}

// Method identifies the strategy inside the registry.
func (s *URLSource) Method() string { return domain.SearchURLs }

// Fetch downloads each listed URL and concatenates the pages.
func (s *URLSource) Fetch(ctx context.Context, req domain.AnalysisRequest) (ports.RawDocument, error) {
	urls := splitURLs(req.Source)
	if len(urls) == 0 {
		return ports.RawDocument{}, fmt.Errorf("no URLs provided")
	}
	if len(urls) > maxURLsPerRequest {
		urls = urls[:maxURLsPerRequest]
	}

	var combined strings.Builder
	for _, u := range urls {
		page, err := s.download(ctx, u)
		if err != nil {
			return ports.RawDocument{}, fmt.Errorf("url %s: %w", u, err)
		}
		combined.WriteString(page)
		combined.WriteString("\n")
	}

	return ports.RawDocument{Name: urls[0], HTML: combined.String()}, nil
}

func (s *URLSource) download(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReviewPulse/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(body), nil
}

func splitURLs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// KeywordSource stands in for a search-API integration. Until one is wired it
// serves the demo dataset, so keyword submissions still produce a full run.
type KeywordSource struct {
	demo   *DemoSource
	logger *slog.Logger
}

// NewKeywordSource wires the demo fallback.
func NewKeywordSource(demo *DemoSource, logger *slog.Logger) *KeywordSource {
	return &KeywordSource{demo: demo, logger: logger}
}

// Method identifies the strategy inside the registry.
func (s *KeywordSource) Method() string { return domain.SearchKeywords }

// Fetch resolves keywords to page content.
func (s *KeywordSource) Fetch(ctx context.Context, req domain.AnalysisRequest) (ports.RawDocument, error) {
	if s.logger != nil {
		s.logger.Warn("keyword search not integrated, serving demo dataset", "keywords", req.Source)
	}
	doc, err := s.demo.Fetch(ctx, req)
	if err != nil {
		return ports.RawDocument{}, err
	}
	doc.Name = fmt.Sprintf("demo (keywords: %s)", req.Source)
	return doc, nil
}

// DemoSource serves the embedded demo dataset; no source URL is needed.
type DemoSource struct{}

// NewDemoSource builds the demo strategy.
func NewDemoSource() *DemoSource { return &DemoSource{} }

// Method identifies the strategy inside the registry.
func (s *DemoSource) Method() string { return domain.SearchDemo }

// Fetch returns the embedded demo reviews page.
func (s *DemoSource) Fetch(ctx context.Context, req domain.AnalysisRequest) (ports.RawDocument, error) {
	return ports.RawDocument{Name: "demo", HTML: demoHTML}, nil
}
