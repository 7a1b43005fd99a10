package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/glossary/internal/core/config"
	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/core/worker"
	"github.com/vietddude/glossary/internal/glossary/assemble"
	"github.com/vietddude/glossary/internal/glossary/export"
	"github.com/vietddude/glossary/internal/glossary/health"
	"github.com/vietddude/glossary/internal/glossary/pipeline"
	"github.com/vietddude/glossary/internal/glossary/summary"
	"github.com/vietddude/glossary/internal/glossary/traverse"
	"github.com/vietddude/glossary/internal/infra/google/auth"
	"github.com/vietddude/glossary/internal/infra/google/docs"
	"github.com/vietddude/glossary/internal/infra/google/drive"
	"github.com/vietddude/glossary/internal/infra/llm"
	redisclient "github.com/vietddude/glossary/internal/infra/redis"
	"github.com/vietddude/glossary/internal/infra/retry"
	"github.com/vietddude/glossary/internal/infra/storage"
	"github.com/vietddude/glossary/internal/infra/storage/memory"
	"github.com/vietddude/glossary/internal/infra/storage/postgres"
)

const (
	lockTTL         = 10 * time.Minute
	lockRefreshTick = 3 * time.Minute
)

// App owns the glossary pipeline and its supporting infrastructure.
type App struct {
	cfg          Config
	pipeline     *pipeline.Pipeline
	exporter     *export.MarkdownExporter
	runs         storage.RunRepository
	pruner       *worker.Pruner
	db           *postgres.DB
	redisClient  *redisclient.Client
	healthServer *health.Server
	log          *slog.Logger
}

// Config holds the application configuration.
type Config struct {
	Port       int
	Glossary   config.GlossaryConfig
	Google     config.GoogleConfig
	Generation config.GenerationConfig
	Retry      config.RetryConfig
	Redis      redisclient.Config
	Database   postgres.Config
	History    config.HistoryConfig
}

// Services are the remote collaborators the pipeline talks to.
type Services struct {
	Lister    domain.Lister
	Creator   domain.DocumentCreator
	Reader    domain.DocumentReader
	Writer    domain.DocumentWriter
	Exporter  domain.DocumentExporter
	Generator domain.TextGenerator
}

// NewApp creates an App backed by Drive, Docs and the configured generator.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	svc, err := NewGoogleServices(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewAppWithServices(ctx, cfg, svc)
}

// NewGoogleServices authorizes against Google and builds the remote clients.
func NewGoogleServices(ctx context.Context, cfg Config) (Services, error) {
	provider, err := auth.NewProvider(cfg.Google.CredentialsFile, cfg.Google.TokenFile)
	if err != nil {
		return Services{}, err
	}
	httpClient, err := provider.Client(ctx)
	if err != nil {
		return Services{}, fmt.Errorf("failed to authorize: %w", err)
	}

	driveClient, err := drive.NewClient(ctx, httpClient)
	if err != nil {
		return Services{}, err
	}
	docsClient, err := docs.NewClient(ctx, httpClient)
	if err != nil {
		return Services{}, err
	}
	gen, err := NewGenerator(ctx, cfg.Generation)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Lister:    driveClient,
		Creator:   driveClient,
		Reader:    docsClient,
		Writer:    docsClient,
		Exporter:  driveClient,
		Generator: gen,
	}, nil
}

// NewGenerator picks the text generation backend.
func NewGenerator(ctx context.Context, cfg config.GenerationConfig) (domain.TextGenerator, error) {
	if cfg.Mock {
		slog.Warn("Using mock text generator")
		return llm.NewMockClient(), nil
	}
	return llm.NewGeminiClient(ctx, llm.Config{
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Backend:     cfg.Backend,
		Project:     cfg.Project,
		Location:    cfg.Location,
		Temperature: cfg.Temperature,
	})
}

// NewAppWithServices wires the pipeline around the given collaborators.
func NewAppWithServices(ctx context.Context, cfg Config, svc Services) (*App, error) {
	log := slog.Default().With("component", "app")

	// 1. Initialize run history storage
	var runs storage.RunRepository
	var db *postgres.DB
	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		runs = postgres.NewRunRepo(db)
		log.Info("Using PostgreSQL run history")
	} else {
		runs = memory.NewRunRepo()
		log.Info("Using Memory run history")
	}

	// 2. Optional run lock
	var redisClient *redisclient.Client
	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			if db != nil {
				_ = db.Close()
			}
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		log.Info("Run lock enabled")
	}

	// 3. Pipeline components share one executor
	exec := retry.NewExecutor(retry.Config{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		InitialDelay:  cfg.Retry.InitialDelay,
		BackoffFactor: cfg.Retry.BackoffFactor,
	}, retry.WithLogger(slog.Default().With("component", "retry")))

	p := pipeline.NewPipeline(
		traverse.NewTraverser(svc.Lister, exec, nil),
		summary.NewGenerator(svc.Reader, svc.Generator, exec,
			summary.WithMaxSourceChars(cfg.Generation.MaxSourceChars)),
		assemble.NewAssembler(svc.Creator, svc.Writer, exec, cfg.Glossary.Title, nil),
		nil,
	)

	app := &App{
		cfg:         cfg,
		pipeline:    p,
		exporter:    export.NewMarkdownExporter(svc.Exporter, exec),
		runs:        runs,
		pruner:      worker.NewPruner(cfg.History.Retention, runs),
		db:          db,
		redisClient: redisClient,
		log:         log,
	}

	// 4. Health server
	if cfg.Port > 0 {
		checks := map[string]health.Check{}
		if db != nil {
			checks["database"] = db.Health
		}
		if redisClient != nil {
			checks["redis"] = func(ctx context.Context) error {
				_, err := redisClient.LockOwner(ctx, cfg.Glossary.RootFolder)
				return err
			}
		}
		app.healthServer = health.NewServer(p, checks, cfg.Port)
	}

	return app, nil
}

// Pipeline returns the underlying pipeline.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// Start starts background components.
func (a *App) Start(ctx context.Context) error {
	if a.healthServer == nil {
		return nil
	}
	go func() {
		if err := a.healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Health server failed", "error", err)
		}
	}()
	a.log.Info("Health server listening", "port", a.cfg.Port)
	return nil
}

// Run executes one glossary run and records it in the run history.
func (a *App) Run(ctx context.Context, cfg pipeline.Config) (*domain.Run, error) {
	if cfg.RootFolder == "" {
		cfg.RootFolder = a.cfg.Glossary.RootFolder
	}
	if cfg.Title == "" {
		cfg.Title = a.cfg.Glossary.Title
	}

	run := &domain.Run{
		ID:         uuid.NewString(),
		RootFolder: cfg.RootFolder,
		Title:      cfg.Title,
		Status:     domain.RunStatusRunning,
		StartedAt:  time.Now().UTC(),
	}

	release, err := a.lock(ctx, run)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := a.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	log := a.log.With("run_id", run.ID)
	log.Info("Starting run", "folder", run.RootFolder, "title", run.Title)

	res, runErr := a.pipeline.Run(ctx, cfg)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.DocumentID = res.DocumentID
	run.ItemCount = len(res.Items)
	run.Status = domain.RunStatusSucceeded
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = runErr.Error()
	}

	// The run context may already be cancelled; the record is still written.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.runs.Finish(recordCtx, run); err != nil {
		log.Warn("Failed to record run outcome", "error", err)
	}
	a.pruner.Prune(recordCtx)

	if runErr != nil {
		return run, runErr
	}
	return run, nil
}

// lock takes the per-folder run lock when Redis is configured and keeps it
// alive until the returned release func is called.
func (a *App) lock(ctx context.Context, run *domain.Run) (func(), error) {
	if a.redisClient == nil {
		return func() {}, nil
	}

	if err := a.redisClient.AcquireLock(ctx, run.RootFolder, run.ID, lockTTL); err != nil {
		return nil, fmt.Errorf("folder %q: %w", run.RootFolder, err)
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(lockRefreshTick)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := a.redisClient.RefreshLock(ctx, run.RootFolder, run.ID, lockTTL)
				if errors.Is(err, redisclient.ErrLockLost) {
					a.log.Warn("Run lock lost, no longer refreshing", "folder", run.RootFolder, "run_id", run.ID)
					return
				}
				if err != nil {
					a.log.Warn("Failed to refresh run lock", "error", err)
				}
			}
		}
	}()

	return func() {
		close(done)
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := a.redisClient.ReleaseLock(releaseCtx, run.RootFolder, run.ID); err != nil {
			a.log.Warn("Failed to release run lock", "error", err)
		}
	}, nil
}

// ExportMarkdown renders a written glossary document as Markdown.
func (a *App) ExportMarkdown(ctx context.Context, documentID string) (string, error) {
	return a.exporter.Export(ctx, documentID)
}

// ListRuns returns the most recent runs, newest first.
func (a *App) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	return a.runs.List(ctx, limit)
}

// Stop releases infrastructure connections.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping glossary app...")

	// Close Redis
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}

	// Close database
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}

	// Stop Health Server
	if a.healthServer != nil {
		return a.healthServer.Stop(ctx)
	}
	return nil
}
