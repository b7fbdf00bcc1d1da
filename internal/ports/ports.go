package ports

import (
	"context"

	"ReviewPulse/internal/domain"
)

// JobStore persists job records. The manager is written against this
// interface so the in-memory table can be swapped for a durable backend
// without touching call sites. Update serializes mutation per job ID.
type JobStore interface {
	Create(ctx context.Context, job domain.Job) error
	Get(ctx context.Context, id string) (domain.Job, error)
	Update(ctx context.Context, id string, mutate func(*domain.Job)) (domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
	Delete(ctx context.Context, id string) error
}

// ResultStore keeps the write-once artifacts of completed jobs.
type ResultStore interface {
	Put(ctx context.Context, rs domain.ResultSet) error
	Get(ctx context.Context, jobID string) (domain.ResultSet, error)
	GetArtifact(ctx context.Context, jobID string) ([]byte, error)
	Delete(ctx context.Context, jobID string) error
}

// ResultArchive mirrors completed result sets into durable storage. Archive
// failures are reported to the caller but are not meant to fail the job.
type ResultArchive interface {
	Archive(ctx context.Context, rs domain.ResultSet) error
}

// ProgressReporter is the slice of the job manager the stage runner talks to.
type ProgressReporter interface {
	UpdateProgress(ctx context.Context, jobID string, progress int, message string)
	Complete(ctx context.Context, jobID, resultRef string) error
	Fail(ctx context.Context, jobID, message string) error
}

// Runner launches the pipeline for a freshly created job. Launch returns
// immediately; execution continues on the runner's own goroutine.
type Runner interface {
	Launch(ctx context.Context, job domain.Job, req domain.AnalysisRequest)
}

// SourceResolver turns a request's search method into raw page content.
type SourceResolver interface {
	Resolve(ctx context.Context, req domain.AnalysisRequest) (RawDocument, error)
}

// RawDocument is fetched page content prior to extraction.
type RawDocument struct {
	Name string
	HTML string
}

// Extractor pulls individual review texts out of raw page content.
type Extractor interface {
	Extract(ctx context.Context, doc RawDocument) ([]string, error)
}

// Classifier assigns a sentiment label and confidence to each text.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]domain.ClassifiedItem, error)
}

// Generator is the LLM collaborator used for summaries, recommendations and
// chat answers.
type Generator interface {
	Generate(ctx context.Context, system string, messages []domain.ChatMessage) (string, error)
}

// Renderer produces the downloadable report artifact for a result set.
type Renderer interface {
	Render(ctx context.Context, rs domain.ResultSet) ([]byte, error)
}

// Mailer delivers the rendered report to the requested recipients.
type Mailer interface {
	SendReport(ctx context.Context, recipients []string, jobID string, report []byte) error
}

// ChatInitializer is an optional capability: components implementing it get a
// chance to warm up per-job chat state right after a job completes. Callers
// hold a typed reference that is nil when the capability is absent.
type ChatInitializer interface {
	InitChat(ctx context.Context, jobID string)
}

// HealthChecker reports reachability of an external collaborator.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
