package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"factsift/internal/analysis"
	"factsift/internal/config"
	"factsift/internal/infrastructure/artifact"
	"factsift/internal/infrastructure/console"
	"factsift/internal/infrastructure/factcheck"
	"factsift/internal/infrastructure/llm"
	"factsift/internal/infrastructure/notion"
	"factsift/internal/infrastructure/scheduler"
	"factsift/internal/infrastructure/scraper"
	"factsift/internal/infrastructure/search"
	"factsift/internal/infrastructure/storage"
	"factsift/internal/infrastructure/telegram"
	"factsift/internal/logging"
	"factsift/internal/pacing"
	"factsift/internal/ports"
	"factsift/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    ports.ArticleStore
	workflow *usecase.Workflow
	watcher  *usecase.Scheduler
}

// New builds a runnable application instance from config.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	reporter := console.NewReporter(os.Stdout)

	artifacts, err := artifact.NewStore(cfg.Analysis.TempDir)
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}

	var completion ports.CompletionClient
	if cfg.Gemini.APIKey != "" {
		completion = llm.NewGeminiClient(cfg.Gemini)
	}

	var claimSearcher ports.ClaimSearcher
	if cfg.FactCheck.APIKey != "" {
		claimSearcher = factcheck.NewGoogleClient(cfg.FactCheck)
	}

	summarizer := analysis.NewSummarizer(
		completion,
		pacing.NewFixedDelay(cfg.Analysis.SummaryDelay()),
		reporter,
		baseLogger.With("component", "summarizer"),
	)
	factChecker := analysis.NewFactChecker(
		claimSearcher,
		artifacts,
		pacing.NewFixedDelay(cfg.Analysis.FactCheckDelay()),
		reporter,
		baseLogger.With("component", "factcheck"),
	)
	classifier := analysis.NewClassifier(
		completion,
		pacing.NewFixedDelay(cfg.Analysis.ClassifyDelay()),
		reporter,
		baseLogger.With("component", "classifier"),
	)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Completion:  completion,
		Summarizer:  summarizer,
		FactChecker: factChecker,
		Classifier:  classifier,
		Artifacts:   artifacts,
		Reporter:    reporter,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	searchClient := search.NewSerperClient(cfg.Serper, baseLogger.With("component", "search"))

	pageScraper := scraper.NewScraper(
		cfg.Scraper,
		pacing.NewFixedDelay(cfg.Scraper.RequestDelay()),
		reporter,
		baseLogger.With("component", "scraper"),
	)

	store, err := storage.NewSQLiteStore(cfg.Database.Path, baseLogger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	var publisher ports.Publisher
	if cfg.Notion.Token != "" && cfg.Notion.ParentPageID != "" {
		publisher = notion.NewPublisher(cfg.Notion, baseLogger.With("component", "notion"))
	}

	workflow := usecase.NewWorkflow(usecase.WorkflowDeps{
		Search:     searchClient,
		Scraper:    pageScraper,
		Pipeline:   pipeline,
		Store:      store,
		Publisher:  publisher,
		Notifier:   notifier,
		Reporter:   reporter,
		Logger:     baseLogger.With("component", "workflow"),
		MaxResults: cfg.Serper.MaxResults,
	})

	watcher := usecase.NewScheduler(
		scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location()),
		workflow,
		cfg.Scheduler.Topics,
		baseLogger.With("component", "scheduler"),
	)

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		workflow: workflow,
		watcher:  watcher,
	}, nil
}

// AnalyzeTopic runs the full search-scrape-analyze workflow once.
func (a *Application) AnalyzeTopic(ctx context.Context, topic string, maxResults int) (*usecase.AnalysisReport, error) {
	return a.workflow.RunTopic(ctx, topic, maxResults)
}

// Store exposes the article store for history and export commands.
func (a *Application) Store() ports.ArticleStore {
	return a.store
}

// Watch runs scheduled analyses until the context is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	if len(a.cfg.Scheduler.Topics) == 0 {
		return fmt.Errorf("no scheduler topics configured")
	}

	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	a.logger.Info("scheduler started",
		"cron", a.cfg.Scheduler.CronExpression,
		"topics", len(a.cfg.Scheduler.Topics))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return a.watcher.Stop(stopCtx)
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
