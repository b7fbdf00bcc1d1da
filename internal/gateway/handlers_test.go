package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReviewPulse/internal/chat"
	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/infrastructure/classifier"
	"ReviewPulse/internal/infrastructure/extractor"
	"ReviewPulse/internal/infrastructure/render"
	"ReviewPulse/internal/jobs"
	"ReviewPulse/internal/logging"
	"ReviewPulse/internal/pipeline"
	"ReviewPulse/internal/ports"
	"ReviewPulse/internal/results"
	"ReviewPulse/pkg/poll"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, system string, messages []domain.ChatMessage) (string, error) {
	return "echo: " + messages[len(messages)-1].Content, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.New("error")

	jobStore := jobs.NewMemoryStore()
	resultStore := results.NewMemoryStore()
	manager := jobs.NewManager(jobStore, logger)

	registry := extractor.NewRegistry()
	demo := extractor.NewDemoSource()
	registry.Register(demo)
	registry.Register(extractor.NewKeywordSource(demo, logger))
	registry.Register(extractor.NewURLSource(nil, logger))

	chatManager := chat.NewManager(resultStore, echoGenerator{}, chat.Options{}, logger)

	runner := pipeline.NewRunner(pipeline.Deps{
		Reporter:   manager,
		Source:     extractor.NewStrategyResolver(registry, logger),
		Extractor:  extractor.NewHTMLExtractor(),
		Classifier: classifier.NewLexicon(),
		Generator:  echoGenerator{},
		Renderer:   render.NewReportRenderer(),
		Results:    resultStore,
		ChatInit:   chatManager,
		Prompt:     "Recommend improvements.",
		Logger:     logger,
	})
	manager.AttachRunner(runner)

	handlers := &Handlers{
		Jobs:            manager,
		Results:         resultStore,
		Chat:            chatManager,
		Company:         "Test Co",
		UpstreamTimeout: 5 * time.Second,
		Logger:          logger,
	}

	server := httptest.NewServer(NewRouter(RouterConfig{Handlers: handlers}))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) (*http.Response, []byte) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestDemoAnalysisEndToEnd(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := postJSON(t, server.URL+"/api/analyze", map[string]any{"searchMethod": "demo"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(raw))

	var created domain.Job
	require.NoError(t, json.Unmarshal(raw, &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, domain.JobPending, created.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var final domain.Job
	err := poll.Until(ctx, poll.Options{Interval: 20 * time.Millisecond, MaxAttempts: 200}, func(ctx context.Context) (bool, error) {
		statusResp, statusRaw := getJSON(t, server.URL+"/api/status/"+created.ID)
		if statusResp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("status endpoint returned %d", statusResp.StatusCode)
		}
		if err := json.Unmarshal(statusRaw, &final); err != nil {
			return false, err
		}
		return final.Status.Terminal(), nil
	})
	require.NoError(t, err)
	require.Equal(t, domain.JobCompleted, final.Status)
	require.Equal(t, 100, final.Progress)
	require.Equal(t, created.ID, final.ResultRef)

	dataResp, dataRaw := getJSON(t, server.URL+"/api/results/"+created.ID+"/data")
	require.Equal(t, http.StatusOK, dataResp.StatusCode)

	var rs domain.ResultSet
	require.NoError(t, json.Unmarshal(dataRaw, &rs))
	require.Equal(t, rs.Stats.Total, rs.Stats.Positive+rs.Stats.Negative+rs.Stats.Neutral)
	require.NotZero(t, rs.Stats.Total)

	pdfResp, pdfRaw := getJSON(t, server.URL+"/api/results/"+created.ID+"/pdf")
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	require.Contains(t, string(pdfRaw), "Total reviews analyzed")

	chatResp, chatRaw := postJSON(t, server.URL+"/api/results/"+created.ID+"/chat",
		map[string]any{"question": "What stands out?"})
	require.Equal(t, http.StatusOK, chatResp.StatusCode, string(chatRaw))

	var answer chatResponse
	require.NoError(t, json.Unmarshal(chatRaw, &answer))
	require.Equal(t, "echo: What stands out?", answer.Answer)
	require.NotEmpty(t, answer.SuggestedQuestions, "first chat turn should carry suggestions")
	require.LessOrEqual(t, len(answer.SuggestedQuestions), 6)
}

func TestAnalyzeRejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := postJSON(t, server.URL+"/api/analyze", map[string]any{"searchMethod": "urls"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, codeInvalidRequest, envelope.Error.Code)
}

func TestStatusUnknownJob(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := getJSON(t, server.URL+"/api/status/no-such-job")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, codeNotFound, envelope.Error.Code)
}

func TestResultsBeforeCompletion(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, _ := getJSON(t, server.URL+"/api/results/unfinished-job/data")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = getJSON(t, server.URL+"/api/results/unfinished-job/pdf")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChatEmptyQuestion(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := postJSON(t, server.URL+"/api/results/whatever/chat", map[string]any{"question": "   "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, codeEmptyQuestion, envelope.Error.Code)
}

func TestChatHistoryLifecycle(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := postJSON(t, server.URL+"/api/analyze", map[string]any{"searchMethod": "demo"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var created domain.Job
	require.NoError(t, json.Unmarshal(raw, &created))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := poll.Until(ctx, poll.Options{Interval: 20 * time.Millisecond, MaxAttempts: 200}, func(ctx context.Context) (bool, error) {
		var job domain.Job
		_, statusRaw := getJSON(t, server.URL+"/api/status/"+created.ID)
		if err := json.Unmarshal(statusRaw, &job); err != nil {
			return false, err
		}
		return job.Status.Terminal(), nil
	})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, _ := postJSON(t, server.URL+"/api/results/"+created.ID+"/chat",
			map[string]any{"question": fmt.Sprintf("question %d", i)})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	suggestResp, suggestRaw := getJSON(t, server.URL+"/api/results/"+created.ID+"/chat/suggestions")
	require.Equal(t, http.StatusOK, suggestResp.StatusCode)
	var suggestions struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(suggestRaw, &suggestions))
	require.NotEmpty(t, suggestions.Suggestions)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/results/"+created.ID+"/chat/history", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	// Clearing again is a no-op, not an error.
	delResp, err = http.DefaultClient.Do(req.Clone(context.Background()))
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestHealthAndConfigEndpoints(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, raw := getJSON(t, server.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), `"status":"ok"`)

	resp, raw = getJSON(t, server.URL+"/api/config")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg struct {
		CompanyName   string   `json:"companyName"`
		SearchMethods []string `json:"searchMethods"`
	}
	require.NoError(t, json.Unmarshal(raw, &cfg))
	require.Equal(t, "Test Co", cfg.CompanyName)
	require.Contains(t, cfg.SearchMethods, "demo")
}

type failingChecker struct{}

func (failingChecker) Ping(ctx context.Context) error {
	return fmt.Errorf("connection refused")
}

type okChecker struct{}

func (okChecker) Ping(ctx context.Context) error { return nil }

func TestHealthDegradedWhenCheckerFails(t *testing.T) {
	t.Parallel()

	logger := logging.New("error")
	resultStore := results.NewMemoryStore()
	handlers := &Handlers{
		Jobs:    jobs.NewManager(jobs.NewMemoryStore(), logger),
		Results: resultStore,
		Chat:    chat.NewManager(resultStore, echoGenerator{}, chat.Options{}, logger),
		Checks: map[string]ports.HealthChecker{
			"classifier": okChecker{},
			"llm":        failingChecker{},
		},
		Logger: logger,
	}
	server := httptest.NewServer(NewRouter(RouterConfig{Handlers: handlers}))
	t.Cleanup(server.Close)

	resp, raw := getJSON(t, server.URL+"/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "ok", body.Checks["classifier"])
	require.Contains(t, body.Checks["llm"], "connection refused")
}

func TestResultsForRunningJobReportNotCompleted(t *testing.T) {
	t.Parallel()

	logger := logging.New("error")
	jobStore := jobs.NewMemoryStore()
	require.NoError(t, jobStore.Create(context.Background(), domain.Job{
		ID:       "running-job",
		Status:   domain.JobRunning,
		Progress: 40,
	}))

	resultStore := results.NewMemoryStore()
	handlers := &Handlers{
		Jobs:    jobs.NewManager(jobStore, logger),
		Results: resultStore,
		Chat:    chat.NewManager(resultStore, echoGenerator{}, chat.Options{}, logger),
		Logger:  logger,
	}
	server := httptest.NewServer(NewRouter(RouterConfig{Handlers: handlers}))
	t.Cleanup(server.Close)

	for _, path := range []string{
		"/api/results/running-job/data",
		"/api/results/running-job/pdf",
		"/api/results/running-job/chat/suggestions",
	} {
		resp, raw := getJSON(t, server.URL+path)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)

		var envelope ErrorEnvelope
		require.NoError(t, json.Unmarshal(raw, &envelope), path)
		require.Equal(t, codeNotFound, envelope.Error.Code, path)
		require.Equal(t, "analysis not completed", envelope.Error.Message, path)
	}

	// An ID no job ever had stays a plain not-found.
	resp, raw := getJSON(t, server.URL+"/api/results/ghost-job/data")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, "resource not found", envelope.Error.Message)
}

func TestUpstreamTimeoutMapsTo504(t *testing.T) {
	t.Parallel()

	logger := logging.New("error")
	resultStore := results.NewMemoryStore()
	require.NoError(t, resultStore.Put(context.Background(), domain.ResultSet{
		JobID: "slow-job",
		Stats: domain.Statistics{Total: 1, Positive: 1},
	}))

	slow := slowGenerator{delay: 200 * time.Millisecond}
	chatManager := chat.NewManager(resultStore, slow, chat.Options{}, logger)

	handlers := &Handlers{
		Jobs:            jobs.NewManager(jobs.NewMemoryStore(), logger),
		Results:         resultStore,
		Chat:            chatManager,
		UpstreamTimeout: 10 * time.Millisecond,
		Logger:          logger,
	}
	server := httptest.NewServer(NewRouter(RouterConfig{Handlers: handlers}))
	t.Cleanup(server.Close)

	resp, raw := postJSON(t, server.URL+"/api/results/slow-job/chat", map[string]any{"question": "hi"})
	require.Equal(t, http.StatusGatewayTimeout, resp.StatusCode, string(raw))
	require.True(t, strings.Contains(string(raw), codeUpstreamTimeout))
}

type slowGenerator struct {
	delay time.Duration
}

func (g slowGenerator) Generate(ctx context.Context, system string, messages []domain.ChatMessage) (string, error) {
	select {
	case <-time.After(g.delay):
		return "late", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
