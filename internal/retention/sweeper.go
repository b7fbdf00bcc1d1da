package retention

import (
	"context"
	"log/slog"
	"time"

	"ReviewPulse/internal/ports"
)

// SessionDropper releases per-job conversational state when a job is evicted.
type SessionDropper interface {
	DropSession(jobID string)
}

// Sweeper periodically evicts terminal jobs older than the configured age,
// together with their results and chat sessions.
type Sweeper struct {
	jobs     ports.JobStore
	results  ports.ResultStore
	sessions SessionDropper
	maxAge   time.Duration
	interval time.Duration
	logger   *slog.Logger

	stop chan struct{}
	done chan struct{}
	now  func() time.Time
}

// New builds a sweeper. A nil sessions dropper is allowed.
func New(jobs ports.JobStore, results ports.ResultStore, sessions SessionDropper, maxAge, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		jobs:     jobs,
		results:  results,
		sessions: sessions,
		maxAge:   maxAge,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.SweepOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop shuts the loop down and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

// SweepOnce evicts every expired terminal job. It returns the number of jobs
// removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		s.logger.Error("retention sweep: list jobs", "error", err)
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0
	for _, job := range jobs {
		if !job.Status.Terminal() || job.UpdatedAt.After(cutoff) {
			continue
		}

		if err := s.jobs.Delete(ctx, job.ID); err != nil {
			s.logger.Error("retention sweep: delete job", "jobId", job.ID, "error", err)
			continue
		}
		if err := s.results.Delete(ctx, job.ID); err != nil {
			s.logger.Error("retention sweep: delete results", "jobId", job.ID, "error", err)
		}
		if s.sessions != nil {
			s.sessions.DropSession(job.ID)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("retention sweep finished", "removed", removed)
	}
	return removed
}
