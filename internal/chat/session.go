package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

const (
	defaultHistoryWindow  = 2
	defaultMaxSuggestions = 6
)

// session is the per-job conversational state. Turns only ever grow, except
// for an explicit clear.
type session struct {
	mu    sync.Mutex
	turns []domain.ChatTurn
}

// Manager serves retrieval-augmented chat over the stored results of
// completed jobs. Sessions are created lazily on the first question and are
// fully independent between jobs.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	results       ports.ResultStore
	generator     ports.Generator
	systemPrompt  string
	historyWindow int
	maxSuggest    int
	logger        *slog.Logger
}

var _ ports.ChatInitializer = (*Manager)(nil)

// Options tune the conversational bounds.
type Options struct {
	SystemPrompt   string
	HistoryWindow  int
	MaxSuggestions int
}

// NewManager wires the result store and the LLM collaborator.
func NewManager(results ports.ResultStore, generator ports.Generator, opts Options, logger *slog.Logger) *Manager {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = defaultMaxSuggestions
	}
	return &Manager{
		sessions:      map[string]*session{},
		results:       results,
		generator:     generator,
		systemPrompt:  opts.SystemPrompt,
		historyWindow: opts.HistoryWindow,
		maxSuggest:    opts.MaxSuggestions,
		logger:        logger,
	}
}

// Ask answers a question against the job's stored results, optionally folding
// in the most recent turns of the session. The new turn is appended on
// success; chat errors never corrupt prior history.
func (m *Manager) Ask(ctx context.Context, jobID, question string, includeHistory bool) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	rs, err := m.results.Get(ctx, jobID)
	if err != nil {
		return "", fmt.Errorf("load results: %w", err)
	}

	if m.generator == nil {
		return "", fmt.Errorf("chat is not available: no LLM collaborator configured")
	}

	sess := m.session(jobID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	system := m.systemPrompt
	if system == "" {
		system = "You are an expert sentiment analysis assistant. You help users understand their customer feedback data."
	}
	system += "\n\nYou have access to the following sentiment analysis results:\n\n" + buildContextPrompt(rs) +
		"\n\nAnswer questions based ONLY on the data provided above."

	var messages []domain.ChatMessage
	if includeHistory {
		start := len(sess.turns) - m.historyWindow
		if start < 0 {
			start = 0
		}
		for _, turn := range sess.turns[start:] {
			messages = append(messages,
				domain.ChatMessage{Role: domain.RoleUser, Content: turn.Question},
				domain.ChatMessage{Role: domain.RoleAssistant, Content: turn.Answer})
		}
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: question})

	answer, err := m.generator.Generate(ctx, system, messages)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	sess.turns = append(sess.turns, domain.ChatTurn{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
	return answer, nil
}

// SuggestQuestions derives candidate follow-up questions from the job's
// result summary, capped at the configured maximum.
func (m *Manager) SuggestQuestions(ctx context.Context, jobID string) ([]string, error) {
	rs, err := m.results.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	return suggestQuestions(rs, m.maxSuggest), nil
}

// ClearHistory truncates the session to empty. Idempotent; the underlying
// result set is untouched.
func (m *Manager) ClearHistory(jobID string) {
	m.mu.Lock()
	sess, ok := m.sessions[jobID]
	m.mu.Unlock()
	if !ok {
		return
	}

	sess.mu.Lock()
	sess.turns = nil
	sess.mu.Unlock()
	m.log().Info("conversation history cleared", "job_id", jobID)
}

// Turns reports the number of completed exchanges in a job's session.
func (m *Manager) Turns(jobID string) int {
	m.mu.Lock()
	sess, ok := m.sessions[jobID]
	m.mu.Unlock()
	if !ok {
		return 0
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

// DropSession discards a job's session entirely; used by retention eviction.
func (m *Manager) DropSession(jobID string) {
	m.mu.Lock()
	delete(m.sessions, jobID)
	m.mu.Unlock()
}

// InitChat is the optional warm-up capability invoked right after a job
// completes. It only verifies the result context loads; the session itself
// stays lazily created.
func (m *Manager) InitChat(ctx context.Context, jobID string) {
	if _, err := m.results.Get(ctx, jobID); err != nil {
		m.log().Warn("chat warm-up skipped", "job_id", jobID, "error", err)
		return
	}
	m.log().Debug("chat context ready", "job_id", jobID)
}

func (m *Manager) session(jobID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[jobID]
	if !ok {
		sess = &session{}
		m.sessions[jobID] = sess
	}
	return sess
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}
