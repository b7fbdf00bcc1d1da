package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ReviewPulse/internal/ports"
)

// RelayMailer delivers rendered reports through an HTTP mail relay.
type RelayMailer struct {
	relayURL string
	apiKey   string
	from     string
	http     *http.Client
}

var _ ports.Mailer = (*RelayMailer)(nil)

// NewRelayMailer wires the relay endpoint.
func NewRelayMailer(relayURL, apiKey, from string) *RelayMailer {
	return &RelayMailer{
		relayURL: relayURL,
		apiKey:   apiKey,
		from:     from,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type relayRequest struct {
	From       string           `json:"from"`
	To         []string         `json:"to"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	Attachment *relayAttachment `json:"attachment,omitempty"`
}

type relayAttachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// SendReport mails the report artifact to each recipient in one message.
func (m *RelayMailer) SendReport(ctx context.Context, recipients []string, jobID string, report []byte) error {
	if len(recipients) == 0 {
		return nil
	}

	payload := relayRequest{
		From:    m.from,
		To:      recipients,
		Subject: fmt.Sprintf("Sentiment analysis report %s", jobID),
		Body:    "Your sentiment analysis has finished. The full report is attached.",
		Attachment: &relayAttachment{
			Filename: fmt.Sprintf("report-%s.txt", jobID),
			Content:  base64.StdEncoding.EncodeToString(report),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.relayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("mail relay returned %s", resp.Status)
	}
	return nil
}
