package retention

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/jobs"
	"ReviewPulse/internal/logging"
	"ReviewPulse/internal/results"
)

type dropRecorder struct {
	dropped []string
}

func (d *dropRecorder) DropSession(jobID string) {
	d.dropped = append(d.dropped, jobID)
}

func TestSweepOnceEvictsExpiredTerminalJobs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	jobStore := jobs.NewMemoryStore()
	resultStore := results.NewMemoryStore()
	dropper := &dropRecorder{}

	now := time.Now()
	old := now.Add(-48 * time.Hour)

	seed := []domain.Job{
		{ID: "expired-done", Status: domain.JobCompleted, UpdatedAt: old},
		{ID: "expired-failed", Status: domain.JobFailed, UpdatedAt: old},
		{ID: "expired-running", Status: domain.JobRunning, UpdatedAt: old},
		{ID: "fresh-done", Status: domain.JobCompleted, UpdatedAt: now},
	}
	for _, j := range seed {
		require.NoError(t, jobStore.Create(ctx, j))
	}
	require.NoError(t, resultStore.Put(ctx, domain.ResultSet{JobID: "expired-done", Report: []byte("r")}))

	sweeper := New(jobStore, resultStore, dropper, 24*time.Hour, time.Hour, logging.New("error"))
	sweeper.now = func() time.Time { return now }

	removed := sweeper.SweepOnce(ctx)
	require.Equal(t, 2, removed)

	_, err := jobStore.Get(ctx, "expired-done")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = jobStore.Get(ctx, "expired-failed")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = jobStore.Get(ctx, "expired-running")
	require.NoError(t, err, "running jobs must survive the sweep")
	_, err = jobStore.Get(ctx, "fresh-done")
	require.NoError(t, err, "fresh jobs must survive the sweep")

	_, err = resultStore.Get(ctx, "expired-done")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ElementsMatch(t, []string{"expired-done", "expired-failed"}, dropper.dropped)
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	sweeper := New(jobs.NewMemoryStore(), results.NewMemoryStore(), nil, time.Hour, 10*time.Millisecond, logging.New("error"))
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
}
