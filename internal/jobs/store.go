package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// MemoryStore is a concurrency-safe in-memory job table. Jobs are independent
// partitions; a single mutex serializes record access so a progress update and
// a concurrent status read can never observe a torn record.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

var _ ports.JobStore = (*MemoryStore)(nil)

// NewMemoryStore builds an empty job table.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: map[string]domain.Job{}}
}

// Create inserts a fresh job record. A duplicate ID is rejected.
func (s *MemoryStore) Create(ctx context.Context, job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %s: %w", job.ID, domain.ErrAlreadyExists)
	}
	s.jobs[job.ID] = job
	return nil
}

// Get returns a snapshot of the job record.
func (s *MemoryStore) Get(ctx context.Context, id string) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}
	return job, nil
}

// Update applies mutate to the record under the store lock and returns the
// resulting snapshot.
func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*domain.Job)) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}

	mutate(&job)
	job.UpdatedAt = time.Now().UTC()
	s.jobs[id] = job
	return job, nil
}

// List returns snapshots of all known jobs in unspecified order.
func (s *MemoryStore) List(ctx context.Context) ([]domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}
	return out, nil
}

// Delete removes a job record; deleting an unknown ID is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, id)
	return nil
}
