package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ReviewPulse/internal/chat"
	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/jobs"
	"ReviewPulse/internal/ports"
)

const defaultUpstreamTimeout = 30 * time.Second

// Handlers bundles the use-case collaborators behind the HTTP surface.
type Handlers struct {
	Jobs            *jobs.Manager
	Results         ports.ResultStore
	Chat            *chat.Manager
	Checks          map[string]ports.HealthChecker
	Company         string
	UpstreamTimeout time.Duration
	Logger          *slog.Logger
}

func (h *Handlers) upstreamBudget() time.Duration {
	if h.UpstreamTimeout > 0 {
		return h.UpstreamTimeout
	}
	return defaultUpstreamTimeout
}

func (h *Handlers) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// classifyResultErr refines a missing-results error: when the job itself is
// known but has not completed, the caller is early rather than wrong.
func (h *Handlers) classifyResultErr(ctx context.Context, jobID string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	job, jobErr := h.Jobs.GetStatus(ctx, jobID)
	if jobErr != nil || job.Status == domain.JobCompleted {
		return err
	}
	return fmt.Errorf("results for job %s: %w", jobID, domain.ErrNotCompleted)
}

// Index describes the service for a caller probing the root path.
func (h *Handlers) Index(c *gin.Context) {
	RespondOK(c, http.StatusOK, gin.H{
		"service": "ReviewPulse",
		"message": "Sentiment analysis API. Submit jobs via POST /api/analyze.",
	})
}

// GetConfig exposes the client-relevant settings.
func (h *Handlers) GetConfig(c *gin.Context) {
	RespondOK(c, http.StatusOK, gin.H{
		"companyName":   h.Company,
		"searchMethods": []string{domain.SearchKeywords, domain.SearchURLs, domain.SearchDemo},
	})
}

// Analyze accepts a new analysis request and returns the pending job record.
func (h *Handlers) Analyze(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
		return
	}
	if req.CompanyName == "" {
		req.CompanyName = h.Company
	}

	job, err := h.Jobs.CreateJob(c.Request.Context(), req)
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusAccepted, job)
}

// Status reports the job state machine snapshot for polling clients.
func (h *Handlers) Status(c *gin.Context) {
	job, err := h.Jobs.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, job)
}

// ResultsData returns the structured result set of a completed job. Until the
// job completes the resource does not exist.
func (h *Handlers) ResultsData(c *gin.Context) {
	jobID := c.Param("id")
	rs, err := h.Results.Get(c.Request.Context(), jobID)
	if err != nil {
		h.respondDomainError(c, h.classifyResultErr(c.Request.Context(), jobID, err))
		return
	}
	RespondOK(c, http.StatusOK, rs)
}

// ResultsReport streams the rendered report artifact for download.
func (h *Handlers) ResultsReport(c *gin.Context) {
	jobID := c.Param("id")
	artifact, err := h.Results.GetArtifact(c.Request.Context(), jobID)
	if err != nil {
		h.respondDomainError(c, h.classifyResultErr(c.Request.Context(), jobID, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.txt", jobID))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", artifact)
}

type chatRequest struct {
	Question       string `json:"question"`
	IncludeHistory *bool  `json:"includeHistory,omitempty"`
}

type chatResponse struct {
	Answer             string   `json:"answer"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
}

// ChatAsk answers one question against the job's results. Early in a
// conversation the response also carries suggested follow-up questions.
func (h *Handlers) ChatAsk(c *gin.Context) {
	jobID := c.Param("id")

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, codeInvalidRequest, "malformed request body")
		return
	}
	includeHistory := req.IncludeHistory == nil || *req.IncludeHistory

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.upstreamBudget())
	defer cancel()

	answer, err := h.Chat.Ask(ctx, jobID, req.Question, includeHistory)
	if err != nil {
		h.respondDomainError(c, h.classifyResultErr(ctx, jobID, err))
		return
	}

	resp := chatResponse{Answer: answer}
	if h.Chat.Turns(jobID) <= 1 {
		if suggestions, err := h.Chat.SuggestQuestions(ctx, jobID); err == nil {
			resp.SuggestedQuestions = suggestions
		}
	}
	RespondOK(c, http.StatusOK, resp)
}

// ChatSuggestions returns candidate questions for a job's results.
func (h *Handlers) ChatSuggestions(c *gin.Context) {
	jobID := c.Param("id")
	suggestions, err := h.Chat.SuggestQuestions(c.Request.Context(), jobID)
	if err != nil {
		h.respondDomainError(c, h.classifyResultErr(c.Request.Context(), jobID, err))
		return
	}
	RespondOK(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

// ChatClearHistory wipes the conversation for a job.
func (h *Handlers) ChatClearHistory(c *gin.Context) {
	h.Chat.ClearHistory(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// Health pings each registered collaborator with a bounded budget.
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	for name, checker := range h.Checks {
		if err := checker.Ping(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	RespondOK(c, status, gin.H{"status": overall, "checks": checks})
}
