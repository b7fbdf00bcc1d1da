package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
	"ReviewPulse/internal/stage"
)

// Deps wires all driven adapters into the stage runner. Source, Extractor,
// Classifier, Renderer and Results are required; the rest are optional and
// skipped when nil.
type Deps struct {
	Reporter   ports.ProgressReporter
	Source     ports.SourceResolver
	Extractor  ports.Extractor
	Classifier ports.Classifier
	Generator  ports.Generator
	Renderer   ports.Renderer
	Mailer     ports.Mailer
	Results    ports.ResultStore
	Archive    ports.ResultArchive
	ChatInit   ports.ChatInitializer
	Prompt     string
	Logger     *slog.Logger
}

// Runner executes a job's pipeline as the fixed ordered stage sequence. Its
// own responsibility is sequencing, progress translation and failure capture;
// the actual work of every stage is delegated to the external collaborators.
type Runner struct {
	deps Deps
}

var _ ports.Runner = (*Runner)(nil)

// NewRunner constructs the orchestration component.
func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps}
}

// Launch starts the pipeline on its own goroutine and returns immediately.
func (r *Runner) Launch(ctx context.Context, job domain.Job, req domain.AnalysisRequest) {
	go r.Run(ctx, job, req)
}

// execution carries state across stages of one run.
type execution struct {
	req   domain.AnalysisRequest
	doc   ports.RawDocument
	texts []string
	rs    domain.ResultSet
}

// Run executes all stages in order, reporting each stage's upper progress
// bound on success. The first stage error stops the pipeline: no later stage
// runs, partial results are discarded, and the job is failed with a
// stage-prefixed message.
func (r *Runner) Run(ctx context.Context, job domain.Job, req domain.AnalysisRequest) {
	exec := &execution{req: req}

	steps := []func(context.Context, *execution) error{
		r.initStage,
		r.fetchStage,
		r.extractStage,
		r.classifyStage,
		r.summarizeStage,
		r.recommendStage,
		r.renderStage,
	}

	for i, step := range steps {
		st := stage.Pipeline[i]
		if err := step(ctx, exec); err != nil {
			msg := fmt.Sprintf("%s stage: %v", strings.ToLower(st.Name), err)
			if failErr := r.deps.Reporter.Fail(ctx, job.ID, msg); failErr != nil {
				r.log().Error("fail callback rejected", "job_id", job.ID, "error", failErr)
			}
			return
		}
		r.deps.Reporter.UpdateProgress(ctx, job.ID, st.Upper, st.Message)
	}

	if err := r.completeStage(ctx, job.ID, exec); err != nil {
		msg := fmt.Sprintf("complete stage: %v", err)
		if failErr := r.deps.Reporter.Fail(ctx, job.ID, msg); failErr != nil {
			r.log().Error("fail callback rejected", "job_id", job.ID, "error", failErr)
		}
		return
	}

	if err := r.deps.Reporter.Complete(ctx, job.ID, job.ID); err != nil {
		r.log().Error("complete callback rejected", "job_id", job.ID, "error", err)
		return
	}

	if r.deps.ChatInit != nil {
		r.deps.ChatInit.InitChat(ctx, job.ID)
	}
}

func (r *Runner) initStage(ctx context.Context, exec *execution) error {
	if r.deps.Source == nil || r.deps.Extractor == nil || r.deps.Classifier == nil ||
		r.deps.Renderer == nil || r.deps.Results == nil {
		return fmt.Errorf("runner is missing required collaborators")
	}

	exec.rs = domain.ResultSet{
		CompanyName: exec.req.CompanyName,
		Sections:    map[domain.Sentiment]domain.SentimentSection{},
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

func (r *Runner) fetchStage(ctx context.Context, exec *execution) error {
	doc, err := r.deps.Source.Resolve(ctx, exec.req)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	exec.doc = doc
	r.log().Debug("source resolved", "source", doc.Name, "bytes", len(doc.HTML))
	return nil
}

func (r *Runner) extractStage(ctx context.Context, exec *execution) error {
	texts, err := r.deps.Extractor.Extract(ctx, exec.doc)
	if err != nil {
		return fmt.Errorf("extract reviews: %w", err)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no reviews found in source %s", exec.doc.Name)
	}
	exec.texts = texts
	return nil
}

func (r *Runner) classifyStage(ctx context.Context, exec *execution) error {
	items, err := r.deps.Classifier.Classify(ctx, exec.texts)
	if err != nil {
		return fmt.Errorf("classify reviews: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("classifier returned no items")
	}
	exec.rs.Items = items
	exec.rs.Stats = computeStats(items)
	return nil
}

func (r *Runner) summarizeStage(ctx context.Context, exec *execution) error {
	for _, sentiment := range domain.Sentiments {
		group := itemsFor(exec.rs.Items, sentiment)
		if len(group) == 0 {
			continue
		}

		section := domain.SentimentSection{
			TopWords:        topWords(group, 10),
			Representatives: representatives(group, 3),
		}

		summary, err := r.summarize(ctx, sentiment, section.Representatives, len(group))
		if err != nil {
			return fmt.Errorf("summarize %s feedback: %w", sentiment, err)
		}
		section.Summary = summary
		exec.rs.Sections[sentiment] = section
	}
	return nil
}

func (r *Runner) summarize(ctx context.Context, sentiment domain.Sentiment, reps []domain.ClassifiedItem, count int) (string, error) {
	// Without an LLM collaborator the representatives themselves stand in
	// for a narrative, mirroring how the pipeline degrades elsewhere.
	if r.deps.Generator == nil {
		lines := make([]string, 0, len(reps))
		for _, rep := range reps {
			lines = append(lines, rep.Text)
		}
		return fmt.Sprintf("%d %s reviews. Representative feedback: %s",
			count, sentiment, strings.Join(lines, " | ")), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the key themes of the following %s customer reviews in a short paragraph.\n\n", sentiment)
	for _, rep := range reps {
		fmt.Fprintf(&b, "- %s\n", rep.Text)
	}

	return r.deps.Generator.Generate(ctx,
		"You summarize customer review sentiment for business reports.",
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: b.String()}})
}

func (r *Runner) recommendStage(ctx context.Context, exec *execution) error {
	prompt := exec.req.CustomPrompt
	if prompt == "" {
		prompt = r.deps.Prompt
	}

	if r.deps.Generator != nil {
		var b strings.Builder
		b.WriteString(prompt)
		b.WriteString("\n\n")
		if neg := exec.rs.Section(domain.SentimentNegative); neg.Summary != "" {
			fmt.Fprintf(&b, "Negative feedback summary:\n%s\n", neg.Summary)
		}
		if pos := exec.rs.Section(domain.SentimentPositive); pos.Summary != "" {
			fmt.Fprintf(&b, "Positive feedback summary:\n%s\n", pos.Summary)
		}

		rec, err := r.deps.Generator.Generate(ctx,
			"You turn customer sentiment analysis into prioritized business recommendations.",
			[]domain.ChatMessage{{Role: domain.RoleUser, Content: b.String()}})
		if err != nil {
			return fmt.Errorf("generate recommendations: %w", err)
		}
		exec.rs.Recommendations = rec
	}

	exec.rs.Risk = computeRisk(exec.rs.Stats)
	return nil
}

func (r *Runner) renderStage(ctx context.Context, exec *execution) error {
	report, err := r.deps.Renderer.Render(ctx, exec.rs)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	exec.rs.Report = report
	return nil
}

func (r *Runner) completeStage(ctx context.Context, jobID string, exec *execution) error {
	exec.rs.JobID = jobID
	if err := r.deps.Results.Put(ctx, exec.rs); err != nil {
		return fmt.Errorf("store results: %w", err)
	}

	if r.deps.Archive != nil {
		if err := r.deps.Archive.Archive(ctx, exec.rs); err != nil {
			r.log().Warn("result archive failed", "job_id", jobID, "error", err)
		}
	}

	if recipients := exec.req.Recipients(); len(recipients) > 0 && r.deps.Mailer != nil {
		if err := r.deps.Mailer.SendReport(ctx, recipients, jobID, exec.rs.Report); err != nil {
			r.log().Warn("report delivery failed", "job_id", jobID, "error", err)
		}
	}
	return nil
}

func (r *Runner) log() *slog.Logger {
	if r.deps.Logger != nil {
		return r.deps.Logger
	}
	return slog.Default()
}
