package results

import (
	"context"
	"fmt"
	"sync"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// MemoryStore keeps completed result sets keyed by job ID. Writes are
// once-only: a second Put for the same ID is rejected, so retrieval queries
// for a job always see a stable view.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]domain.ResultSet
}

var _ ports.ResultStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: map[string]domain.ResultSet{}}
}

// Put stores the result set for its job ID, rejecting overwrites.
func (s *MemoryStore) Put(ctx context.Context, rs domain.ResultSet) error {
	if rs.JobID == "" {
		return fmt.Errorf("result set without job id: %w", domain.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[rs.JobID]; exists {
		return fmt.Errorf("results for job %s: %w", rs.JobID, domain.ErrAlreadyExists)
	}
	s.results[rs.JobID] = rs
	return nil
}

// Get returns the stored result set for a job.
func (s *MemoryStore) Get(ctx context.Context, jobID string) (domain.ResultSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, ok := s.results[jobID]
	if !ok {
		return domain.ResultSet{}, fmt.Errorf("results for job %s: %w", jobID, domain.ErrNotFound)
	}
	return rs, nil
}

// GetArtifact returns the rendered report bytes for a job.
func (s *MemoryStore) GetArtifact(ctx context.Context, jobID string) ([]byte, error) {
	rs, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(rs.Report) == 0 {
		return nil, fmt.Errorf("artifact for job %s: %w", jobID, domain.ErrNotFound)
	}
	return rs.Report, nil
}

// Delete evicts a job's results; unknown IDs are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.results, jobID)
	return nil
}
