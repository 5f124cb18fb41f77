package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"PreprintScanner/internal/config"
	"PreprintScanner/internal/domain"
	"PreprintScanner/internal/infrastructure/parser"
	"PreprintScanner/internal/infrastructure/scheduler"
	"PreprintScanner/internal/infrastructure/storage"
	"PreprintScanner/internal/logging"
	"PreprintScanner/internal/ports"
	"PreprintScanner/internal/scanner"
	"PreprintScanner/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	source ports.ListingSource
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.NewWithFormat(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	}

	client := &http.Client{Timeout: cfg.Source.Timeout}
	registry := scanner.NewRegistry()
	registry.Register(
		parser.NewArxivScanner(client, baseLogger.With("component", "scanner.arxiv")).
			WithUserAgent(cfg.Source.UserAgent),
	)

	source := parser.NewStrategySource(registry, cfg.Source, baseLogger.With("component", "source"))

	return &Application{cfg: cfg, logger: baseLogger, source: source}
}

// InitStore creates the database schema and releases the handle.
func (a *Application) InitStore(ctx context.Context) error {
	repo, err := storage.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return err
	}
	a.logger.Info("database ready", "path", a.cfg.Database.Path)
	return repo.Close()
}

// RunOnce performs a single pipeline execution. The store is opened for
// the duration of the run and closed afterwards.
func (a *Application) RunOnce(ctx context.Context, capacity int) ([]domain.ArticleRecord, error) {
	repo, err := storage.Open(ctx, a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			a.logger.Warn("close database", "error", cerr)
		}
	}()

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     a.source,
		Repository: repo,
		Logger:     a.logger.With("component", "pipeline"),
	})

	return pipeline.FetchTopK(ctx, capacity)
}

// Serve runs the pipeline daily at the configured hour until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	sc := a.cfg.Scheduler
	driver := scheduler.NewDailyScheduler(sc.RunHour(), sc.Location(), sc.ShouldRunOnStart())

	capacity := a.cfg.Selection.Capacity
	sched := usecase.NewScheduler(driver, func(ctx context.Context) error {
		records, err := a.RunOnce(ctx, capacity)
		if err != nil {
			return err
		}
		a.logger.Info("run selected articles", "count", len(records))
		return nil
	}, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started",
		"hour", sc.RunHour(),
		"timezone", sc.Location().String(),
		"next_run", scheduler.NextRun(time.Now(), sc.RunHour(), sc.Location()),
	)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}
