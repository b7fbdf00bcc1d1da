package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	http        *http.Client
}

var _ ports.Generator = (*Client)(nil)
var _ ports.HealthChecker = (*Client)(nil)

// Options configures the completion requests.
type Options struct {
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

// NewClient creates a reusable chat-completions client.
func NewClient(opts Options) *Client {
	return &Client{
		endpoint:    opts.Endpoint,
		model:       opts.Model,
		apiKey:      opts.APIKey,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		http:        &http.Client{Timeout: 90 * time.Second},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the system prompt plus conversation and returns the first
// completion choice.
func (c *Client) Generate(ctx context.Context, system string, messages []domain.ChatMessage) (string, error) {
	wire := make([]wireMessage, 0, len(messages)+1)
	if system != "" {
		wire = append(wire, wireMessage{Role: string(domain.RoleSystem), Content: system})
	}
	for _, m := range messages {
		wire = append(wire, wireMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    wire,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion api: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("completion api returned %s", resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Ping verifies the API key works with a minimal completion.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, "", []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "ping"},
	})
	if err != nil {
		return fmt.Errorf("ping llm: %w", err)
	}
	return nil
}
