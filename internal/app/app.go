package app

import (
	"context"
	"log/slog"
	"time"

	"ReviewPulse/internal/chat"
	"ReviewPulse/internal/config"
	"ReviewPulse/internal/gateway"
	"ReviewPulse/internal/infrastructure/classifier"
	"ReviewPulse/internal/infrastructure/extractor"
	"ReviewPulse/internal/infrastructure/llm"
	"ReviewPulse/internal/infrastructure/mail"
	"ReviewPulse/internal/infrastructure/render"
	"ReviewPulse/internal/jobs"
	"ReviewPulse/internal/logging"
	"ReviewPulse/internal/pipeline"
	"ReviewPulse/internal/ports"
	"ReviewPulse/internal/results"
	"ReviewPulse/internal/retention"
)

// Application wires configuration into the use-case graph and owns the
// process lifecycle.
type Application struct {
	cfg     config.Config
	server  *gateway.Server
	sweeper *retention.Sweeper
	archive *results.PostgresArchive
	logger  *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	jobStore := jobs.NewMemoryStore()
	resultStore := results.NewMemoryStore()
	manager := jobs.NewManager(jobStore, baseLogger.With("component", "jobs"))

	registry := extractor.NewRegistry()
	demo := extractor.NewDemoSource()
	registry.Register(demo)
	registry.Register(extractor.NewKeywordSource(demo, baseLogger.With("component", "source.keywords")))
	registry.Register(extractor.NewURLSource(nil, baseLogger.With("component", "source.urls")))
	resolver := extractor.NewStrategyResolver(registry, baseLogger.With("component", "source"))

	checks := map[string]ports.HealthChecker{}

	var reviewClassifier ports.Classifier
	if cfg.Classifier.InferenceURL != "" {
		client := classifier.NewClient(cfg.Classifier.InferenceURL, cfg.Classifier.APIKey)
		reviewClassifier = client
		checks["classifier"] = client
	} else {
		baseLogger.Warn("no inference service configured, using lexicon classifier")
		reviewClassifier = classifier.NewLexicon()
	}

	var generator ports.Generator
	if cfg.LLM.APIKey != "" {
		client := llm.NewClient(llm.Options{
			Endpoint:    cfg.LLM.Endpoint,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		})
		generator = client
		checks["llm"] = client
	} else {
		baseLogger.Warn("no LLM api key configured, summaries degrade and chat is disabled")
	}

	var mailer ports.Mailer
	if cfg.Mail.RelayURL != "" {
		mailer = mail.NewRelayMailer(cfg.Mail.RelayURL, cfg.Mail.APIKey, cfg.Mail.From)
	}

	var (
		archive     *results.PostgresArchive
		archivePort ports.ResultArchive
	)
	resultAccess := ports.ResultStore(resultStore)
	if cfg.Database.DSN != "" {
		var err error
		archive, err = results.Open(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		archivePort = archive
		// Results archived before a restart stay reachable through the
		// read-through layer.
		resultAccess = results.NewReadThrough(resultStore, archive,
			baseLogger.With("component", "results"))
	}

	chatManager := chat.NewManager(resultAccess, generator, chat.Options{
		SystemPrompt:   cfg.LLM.SystemPrompt,
		HistoryWindow:  cfg.Chat.HistoryWindow,
		MaxSuggestions: cfg.Chat.MaxSuggestions,
	}, baseLogger.With("component", "chat"))

	runner := pipeline.NewRunner(pipeline.Deps{
		Reporter:   manager,
		Source:     resolver,
		Extractor:  extractor.NewHTMLExtractor(),
		Classifier: reviewClassifier,
		Generator:  generator,
		Renderer:   render.NewReportRenderer(),
		Mailer:     mailer,
		Results:    resultStore,
		Archive:    archivePort,
		ChatInit:   chatManager,
		Prompt:     cfg.LLM.DefaultPrompt,
		Logger:     baseLogger.With("component", "pipeline"),
	})
	manager.AttachRunner(runner)

	sweeper := retention.New(jobStore, resultAccess, chatManager,
		cfg.Retention.MaxAge, cfg.Retention.SweepInterval,
		baseLogger.With("component", "retention"))

	handlers := &gateway.Handlers{
		Jobs:            manager,
		Results:         resultAccess,
		Chat:            chatManager,
		Checks:          checks,
		Company:         cfg.Company,
		UpstreamTimeout: cfg.Server.UpstreamTimeout,
		Logger:          baseLogger.With("component", "gateway"),
	}
	router := gateway.NewRouter(gateway.RouterConfig{Handlers: handlers})
	server := gateway.NewServer(cfg.Server.Addr, router)

	return &Application{
		cfg:     cfg,
		server:  server,
		sweeper: sweeper,
		archive: archive,
		logger:  baseLogger,
	}, nil
}

// Run serves HTTP until the context is cancelled, then drains gracefully.
func (a *Application) Run(ctx context.Context) error {
	a.sweeper.Start()
	defer a.sweeper.Stop()
	if a.archive != nil {
		defer a.archive.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.cfg.Server.Addr)
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}
