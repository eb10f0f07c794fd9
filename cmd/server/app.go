package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sprintlab/sprint-api/internal/config"
	"github.com/sprintlab/sprint-api/internal/domain/achievement"
	"github.com/sprintlab/sprint-api/internal/events"
	"github.com/sprintlab/sprint-api/internal/generation"
	"github.com/sprintlab/sprint-api/internal/platform/gemini"
	"github.com/sprintlab/sprint-api/internal/platform/postgres"
	redisplatform "github.com/sprintlab/sprint-api/internal/platform/redis"
	"github.com/sprintlab/sprint-api/internal/service/auth"
	"github.com/sprintlab/sprint-api/internal/service/dialogue"
	"github.com/sprintlab/sprint-api/internal/service/progression"
	"github.com/sprintlab/sprint-api/internal/store"
	"github.com/sprintlab/sprint-api/internal/task"

	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	// Stores
	enrollmentStore store.EnrollmentStore
	progressStore   store.ProgressStore
	dialogueCache   store.DialogueCache
	preferenceStore store.PreferenceStore
	taskStore       task.TaskStore

	// Services
	jwtService         auth.JWTService
	generator          generation.Generator
	progressionService progression.ProgressionService
	dialogueService    dialogue.DialogueService

	// Event system and background work
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	// Redis backs the dialogue cache and the preference store.
	app.redis, err = redisplatform.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	dialogueTTL := time.Duration(cfg.Redis.DialogueTTLHours) * time.Hour
	app.dialogueCache = redisplatform.NewRedisDialogueCache(app.redis, dialogueTTL)
	app.preferenceStore = redisplatform.NewRedisPreferenceStore(app.redis)

	// Postgres stores
	app.enrollmentStore = postgres.NewPostgresEnrollmentStore(db)
	app.progressStore = postgres.NewPostgresProgressStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)

	// LLM generator and lesson content source
	app.generator, err = gemini.NewGeminiGenerator(
		ctx,
		logger.With("component", "dialogue_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dialogue generator: %w", err)
	}

	contentSource, err := generation.NewFileContentSource(
		cfg.LLM.PromptTemplatePath,
		cfg.Sprint.Topics,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson content source: %w", err)
	}

	// Event emitter for completion-driven prewarm requests
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Progression service over repository adapters
	enrollmentRepo := progression.NewEnrollmentRepositoryAdapter(app.enrollmentStore, db)
	progressRepo := progression.NewProgressRepositoryAdapter(app.progressStore)

	app.progressionService, err = progression.NewProgressionService(
		enrollmentRepo,
		progressRepo,
		app.dialogueCache,
		app.eventEmitter,
		&achievement.Params{
			SprintDays:   cfg.Sprint.Days,
			StreakLength: cfg.Sprint.StreakLength,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create progression service: %w", err)
	}

	app.dialogueService, err = dialogue.NewDialogueService(
		app.enrollmentStore,
		app.progressStore,
		app.dialogueCache,
		contentSource,
		app.generator,
		cfg.LLM.ModelName,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dialogue service: %w", err)
	}

	// Background prewarm pipeline: emitter -> factory -> runner
	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	prewarmFactory := task.NewDialoguePrewarmTaskFactory(
		app.dialogueService,
		logger.With("component", "dialogue_prewarm_factory"),
	)
	prewarmHandler := task.NewTaskFactoryEventHandler(
		prewarmFactory,
		app.taskRunner,
		logger.With("component", "task_factory_event_handler"),
	)

	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(prewarmHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register prewarm handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner initializes and starts the background task processor.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	runnerConfig := task.DefaultTaskRunnerConfig()
	if app.config.Sprint.PrewarmWorkers > 0 {
		runnerConfig.WorkerCount = app.config.Sprint.PrewarmWorkers
	}

	taskRunner := task.NewTaskRunner(app.taskStore, runnerConfig, app.logger)
	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
