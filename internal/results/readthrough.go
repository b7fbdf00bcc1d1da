package results

import (
	"context"
	"errors"
	"log/slog"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// Loader restores a single archived result set by job ID.
type Loader interface {
	Load(ctx context.Context, jobID string) (domain.ResultSet, error)
}

// ReadThrough layers the durable archive under the in-memory store: reads
// that miss memory fall back to the archive and re-seed memory, so results
// archived before a restart stay reachable. Writes and deletes go to the
// in-memory store only; the archive keeps its copy.
type ReadThrough struct {
	store  ports.ResultStore
	loader Loader
	logger *slog.Logger
}

var _ ports.ResultStore = (*ReadThrough)(nil)

// NewReadThrough wires the memory store and the archive loader.
func NewReadThrough(store ports.ResultStore, loader Loader, logger *slog.Logger) *ReadThrough {
	return &ReadThrough{store: store, loader: loader, logger: logger}
}

// Put stores the result set in memory.
func (r *ReadThrough) Put(ctx context.Context, rs domain.ResultSet) error {
	return r.store.Put(ctx, rs)
}

// Get returns the result set, restoring it from the archive on a memory miss.
func (r *ReadThrough) Get(ctx context.Context, jobID string) (domain.ResultSet, error) {
	rs, err := r.store.Get(ctx, jobID)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return rs, err
	}

	rs, loadErr := r.loader.Load(ctx, jobID)
	if loadErr != nil {
		return domain.ResultSet{}, err
	}

	if seedErr := r.store.Put(ctx, rs); seedErr != nil && !errors.Is(seedErr, domain.ErrAlreadyExists) {
		r.log().Warn("re-seeding restored results failed", "job_id", jobID, "error", seedErr)
	} else {
		r.log().Info("results restored from archive", "job_id", jobID)
	}
	return rs, nil
}

// GetArtifact returns the report bytes, restoring from the archive on a miss.
func (r *ReadThrough) GetArtifact(ctx context.Context, jobID string) ([]byte, error) {
	artifact, err := r.store.GetArtifact(ctx, jobID)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return artifact, err
	}

	rs, loadErr := r.Get(ctx, jobID)
	if loadErr != nil {
		return nil, err
	}
	if len(rs.Report) == 0 {
		return nil, err
	}
	return rs.Report, nil
}

// Delete evicts the in-memory copy. The archived copy stays durable.
func (r *ReadThrough) Delete(ctx context.Context, jobID string) error {
	return r.store.Delete(ctx, jobID)
}

func (r *ReadThrough) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
