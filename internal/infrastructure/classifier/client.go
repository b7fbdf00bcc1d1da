package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// Client talks to the external inference service that assigns sentiment
// labels to review texts.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)
var _ ports.HealthChecker = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

type classifyResponse struct {
	Results []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

// Classify sends the text batch for labeling.
func (c *Client) Classify(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error) {
	payload := map[string]any{"texts": texts}

	var resp classifyResponse
	if err := c.post(ctx, "/classify", payload, &resp); err != nil {
		return nil, err
	}

	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("classifier returned %d results for %d texts", len(resp.Results), len(texts))
	}

	items := make([]domain.ClassifiedItem, len(texts))
	for i, res := range resp.Results {
		items[i] = domain.ClassifiedItem{
			Text:       texts[i],
			Sentiment:  mapLabel(res.Label),
			Confidence: res.Confidence,
		}
	}
	return items, nil
}

// Ping checks the inference service health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapLabel(label string) domain.Sentiment {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POSITIVE", "POS":
		return domain.SentimentPositive
	case "NEGATIVE", "NEG":
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
