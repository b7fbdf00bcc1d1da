package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
	"ReviewPulse/internal/stage"
)

// Manager owns the job lifecycle state machine. It creates jobs, accepts
// progress updates from the stage runner, and answers status queries. Every
// job gets a fresh ID, so at most one runner execution can ever exist per ID,
// and terminal states are never overwritten.
type Manager struct {
	store  ports.JobStore
	runner ports.Runner
	logger *slog.Logger
}

var _ ports.ProgressReporter = (*Manager)(nil)

// NewManager wires the injected job store.
func NewManager(store ports.JobStore, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// AttachRunner binds the stage runner that executes created jobs. Kept
// separate from the constructor because the runner reports progress back
// through the manager.
func (m *Manager) AttachRunner(r ports.Runner) {
	m.runner = r
}

// CreateJob validates the request, persists a pending job and hands it to the
// stage runner asynchronously.
func (m *Manager) CreateJob(ctx context.Context, req domain.AnalysisRequest) (domain.Job, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Job{}, err
	}

	now := time.Now().UTC()
	job := domain.Job{
		ID:        uuid.NewString(),
		Status:    domain.JobPending,
		Progress:  0,
		Stage:     stage.LabelFor(0),
		Message:   "Analysis job queued",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.Create(ctx, job); err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	m.log().Info("job created", "job_id", job.ID, "search_method", req.SearchMethod)

	if m.runner != nil {
		// The pipeline must outlive the originating HTTP request.
		m.runner.Launch(context.WithoutCancel(ctx), job, req)
	}
	return job, nil
}

// UpdateProgress records a progress milestone reported by the stage runner.
// Progress regressions and updates to terminal jobs are logged and ignored so
// a slow straggler stage can never resurrect or rewind a job.
func (m *Manager) UpdateProgress(ctx context.Context, jobID string, progress int, message string) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	_, err := m.store.Update(ctx, jobID, func(j *domain.Job) {
		if j.Status.Terminal() {
			m.log().Warn("progress update for terminal job ignored", "job_id", jobID, "progress", progress)
			return
		}
		if progress < j.Progress {
			m.log().Warn("out-of-order progress update ignored",
				"job_id", jobID, "current", j.Progress, "reported", progress)
			return
		}
		if j.Status == domain.JobPending {
			j.Status = domain.JobRunning
		}
		j.Progress = progress
		j.Stage = stage.LabelFor(progress)
		j.Message = message
	})
	if err != nil {
		m.log().Error("progress update failed", "job_id", jobID, "error", err)
	}
}

// Complete marks the job completed and records its result reference.
// Idempotent no-op if the job is already terminal.
func (m *Manager) Complete(ctx context.Context, jobID, resultRef string) error {
	_, err := m.store.Update(ctx, jobID, func(j *domain.Job) {
		if j.Status.Terminal() {
			return
		}
		j.Status = domain.JobCompleted
		j.Progress = 100
		j.Stage = stage.LabelFor(100)
		j.Message = "Analysis complete"
		j.ResultRef = resultRef
	})
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	m.log().Info("job completed", "job_id", jobID)
	return nil
}

// Fail marks the job failed with a human-readable message. Progress stays
// frozen at the last completed stage. Idempotent no-op on terminal jobs.
func (m *Manager) Fail(ctx context.Context, jobID, message string) error {
	_, err := m.store.Update(ctx, jobID, func(j *domain.Job) {
		if j.Status.Terminal() {
			return
		}
		j.Status = domain.JobFailed
		j.Error = message
		j.Message = "Error: " + message
	})
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	m.log().Warn("job failed", "job_id", jobID, "error", message)
	return nil
}

// GetStatus returns a read-only snapshot of the job record.
func (m *Manager) GetStatus(ctx context.Context, jobID string) (domain.Job, error) {
	return m.store.Get(ctx, jobID)
}

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return slog.Default()
}
