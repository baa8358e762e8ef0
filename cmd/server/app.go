package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/kinetic-api/internal/animation"
	"github.com/phrazzld/kinetic-api/internal/config"
	"github.com/phrazzld/kinetic-api/internal/deck"
	"github.com/phrazzld/kinetic-api/internal/domain"
	"github.com/phrazzld/kinetic-api/internal/events"
	"github.com/phrazzld/kinetic-api/internal/platform/memory"
	"github.com/phrazzld/kinetic-api/internal/platform/postgres"
	"github.com/phrazzld/kinetic-api/internal/platform/redis"
	"github.com/phrazzld/kinetic-api/internal/redact"
	"github.com/phrazzld/kinetic-api/internal/service"
	"github.com/phrazzld/kinetic-api/internal/service/auth"
	"github.com/phrazzld/kinetic-api/internal/store"
	"github.com/phrazzld/kinetic-api/internal/task"
)

// sessionReapInterval is how often the in-memory session store drops
// expired sessions.
const sessionReapInterval = time.Minute

// application holds the shared dependencies so they can be wired once and
// cleaned up together.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	catalog service.SlideCatalog
	theme   domain.Theme

	interactionStore store.InteractionStore
	sessionStore     store.SessionStore
	taskStore        task.TaskStore

	jwtService         auth.JWTService
	quizService        service.QuizService
	formulaService     service.FormulaService
	interactionService service.InteractionService
	assessmentService  service.AssessmentService

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner

	stopBackground context.CancelFunc
}

// newApplication wires every dependency. The database must already be
// reachable.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}
	bgCtx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel

	if err := app.setupDeck(); err != nil {
		app.cleanup()
		return nil, err
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.interactionStore = postgres.NewPostgresInteractionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	if err := app.setupSessionStore(ctx, bgCtx); err != nil {
		app.cleanup()
		return nil, err
	}

	registry := task.NewRegistry()
	registry.Register(task.TaskTypeInteractionRecording,
		task.InteractionRecordingFactory(app.interactionStore, logger))

	app.taskRunner = task.NewTaskRunner(app.taskStore, registry, task.TaskRunnerConfig{
		WorkerCount:  cfg.Task.WorkerCount,
		QueueSize:    cfg.Task.QueueSize,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(registry, app.taskRunner, logger))

	if err := app.setupServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized",
		slog.String("deck", app.catalog.Title()),
		slog.String("theme", string(app.theme)))
	return app, nil
}

func (app *application) setupDeck() error {
	var (
		registry *deck.Registry
		err      error
	)
	if app.config.Deck.Path != "" {
		registry, err = deck.LoadFile(app.config.Deck.Path)
	} else {
		registry, err = deck.Default()
	}
	if err != nil {
		return fmt.Errorf("failed to load slide deck: %w", err)
	}
	app.catalog = registry

	app.theme, err = domain.ParseTheme(app.config.Deck.Theme)
	if err != nil {
		return fmt.Errorf("failed to parse theme: %w", err)
	}
	return nil
}

// setupSessionStore picks the quiz session backend. Sessions in memory are
// lost on restart and are not shared between instances.
func (app *application) setupSessionStore(ctx, bgCtx context.Context) error {
	ttl := time.Duration(app.config.Sessions.TTLMinutes) * time.Minute

	switch app.config.Sessions.Backend {
	case "redis":
		client, err := redis.NewClient(ctx, app.config.Sessions.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %s", redact.Error(err))
		}
		app.redis = client
		app.sessionStore = redis.NewSessionStore(client, ttl, app.logger)
	default:
		mem := memory.NewSessionStore(ttl, app.logger)
		mem.StartReaper(bgCtx, sessionReapInterval)
		app.sessionStore = mem
	}

	app.logger.Info("quiz session store ready",
		slog.String("backend", app.config.Sessions.Backend),
		slog.Int("ttl_minutes", app.config.Sessions.TTLMinutes))
	return nil
}

func (app *application) setupServices() error {
	var err error

	app.interactionService, err = service.NewInteractionService(
		app.interactionStore, app.catalog, app.eventEmitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create interaction service: %w", err)
	}

	app.quizService, err = service.NewQuizService(
		app.sessionStore, app.catalog, app.interactionService, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create quiz service: %w", err)
	}

	app.formulaService, err = service.NewFormulaService(app.catalog, animation.DefaultSpring())
	if err != nil {
		return fmt.Errorf("failed to create formula service: %w", err)
	}

	app.assessmentService = service.NewAssessmentService(app.catalog)
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources in reverse order of acquisition. It is safe
// on a partially initialized application.
func (app *application) cleanup() {
	if app.stopBackground != nil {
		app.stopBackground()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", redact.Error(err)))
		}
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("application shutdown completed")
}
