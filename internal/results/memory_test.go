package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ReviewPulse/internal/domain"
)

func sampleResultSet(jobID string) domain.ResultSet {
	return domain.ResultSet{
		JobID: jobID,
		Items: []domain.ClassifiedItem{
			{Text: "great food", Sentiment: domain.SentimentPositive, Confidence: 0.97},
			{Text: "slow service", Sentiment: domain.SentimentNegative, Confidence: 0.88},
		},
		Stats: domain.Statistics{Total: 2, Positive: 1, Negative: 1},
		Sections: map[domain.Sentiment]domain.SentimentSection{
			domain.SentimentNegative: {Summary: "Service speed is the main complaint."},
		},
		Report: []byte("report body"),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	want := sampleResultSet("job-1")
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	artifact, err := s.GetArtifact(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, []byte("report body"), artifact)
}

func TestPutIsWriteOnce(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	first := sampleResultSet("job-1")
	require.NoError(t, s.Put(ctx, first))

	second := sampleResultSet("job-1")
	second.Stats.Total = 99
	err := s.Put(ctx, second)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Stats.Total, "first write must remain visible")
}

func TestGetUnknownJob(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetArtifact(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, sampleResultSet("job-1")))
	require.NoError(t, s.Delete(ctx, "job-1"))
	require.NoError(t, s.Delete(ctx, "job-1"))

	_, err := s.Get(ctx, "job-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
