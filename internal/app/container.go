// Package app wires the application together: database pool, redis
// client, repositories, services, and command/query handlers.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/echo-labs/echo-core/adapter/api"
	calendarCommands "github.com/echo-labs/echo-core/internal/calendar/application/commands"
	calendarDomain "github.com/echo-labs/echo-core/internal/calendar/domain"
	calendarCache "github.com/echo-labs/echo-core/internal/calendar/infrastructure/cache"
	calendarPersistence "github.com/echo-labs/echo-core/internal/calendar/infrastructure/persistence"
	cognitionCommands "github.com/echo-labs/echo-core/internal/cognition/application/commands"
	cognitionQueries "github.com/echo-labs/echo-core/internal/cognition/application/queries"
	cognitionServices "github.com/echo-labs/echo-core/internal/cognition/application/services"
	cognitionDomain "github.com/echo-labs/echo-core/internal/cognition/domain"
	cognitionPersistence "github.com/echo-labs/echo-core/internal/cognition/infrastructure/persistence"
	inboxDomain "github.com/echo-labs/echo-core/internal/inbox/domain"
	inboxPersistence "github.com/echo-labs/echo-core/internal/inbox/infrastructure/persistence"
	schedulingCommands "github.com/echo-labs/echo-core/internal/scheduling/application/commands"
	schedulingServices "github.com/echo-labs/echo-core/internal/scheduling/application/services"
	schedulingDomain "github.com/echo-labs/echo-core/internal/scheduling/domain"
	schedulingPersistence "github.com/echo-labs/echo-core/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/echo-labs/echo-core/internal/shared/application"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/eventbus"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/migrations"
	"github.com/echo-labs/echo-core/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/echo-labs/echo-core/internal/shared/infrastructure/persistence"
	"github.com/echo-labs/echo-core/pkg/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	UserID uuid.UUID

	DB          *pgxpool.Pool
	RedisClient *redis.Client

	WorkItemRepo  schedulingDomain.WorkItemRepository
	SnapshotRepo  calendarDomain.SnapshotRepository
	SnapshotStore *calendarPersistence.PostgresSnapshotRepository
	EmailRepo     inboxDomain.EmailRepository
	StateRepo     cognitionDomain.StateRepository
	OutboxRepo    outbox.Repository

	EventPublisher eventbus.Publisher
	UnitOfWork     sharedApplication.UnitOfWork

	Suggester *schedulingServices.BlockSuggester
	Collector *cognitionServices.SignalCollector

	CreateItemHandler     *schedulingCommands.CreateWorkItemHandler
	SuggestBlockHandler   *schedulingCommands.SuggestBlockHandler
	DecideHandler         *schedulingCommands.DecidePlacementHandler
	RecomputeStateHandler *cognitionCommands.RecomputeStateHandler
	LatestStateHandler    *cognitionQueries.LatestStateHandler
	CurrentOpinionHandler *cognitionQueries.CurrentOpinionHandler
	UpsertSnapshotHandler *calendarCommands.UpsertSnapshotHandler
}

// NewContainer builds the full dependency graph. Redis is optional in
// development; everything else is required.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid ECHO_USER_ID: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		UserID: userID,
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DB = pool
	logger.Info("connected to database")

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, snapshot reads go straight to the database", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, snapshot reads go straight to the database", "error", err)
			} else {
				c.RedisClient = client
				logger.Info("connected to Redis")
			}
		}
	}

	c.WorkItemRepo = schedulingPersistence.NewPostgresWorkItemRepository(pool)
	c.SnapshotStore = calendarPersistence.NewPostgresSnapshotRepository(pool)
	c.EmailRepo = inboxPersistence.NewPostgresEmailRepository(pool)
	c.StateRepo = cognitionPersistence.NewPostgresStateRepository(pool)
	c.OutboxRepo = outbox.NewPostgresRepository(pool)
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	var invalidator calendarCommands.SnapshotInvalidator
	c.SnapshotRepo = c.SnapshotStore
	if c.RedisClient != nil {
		cached := calendarCache.NewCachedSnapshotRepository(c.SnapshotStore, c.RedisClient, cfg.SnapshotCacheTTL, logger)
		c.SnapshotRepo = cached
		invalidator = cached
	}

	c.Suggester = schedulingServices.NewBlockSuggester(schedulingServices.SuggesterConfig{
		WorkingHours: schedulingDomain.WorkingHours{
			StartHour:   cfg.WorkDayStartHour,
			StartMinute: cfg.WorkDayStartMinute,
			EndHour:     cfg.WorkDayEndHour,
			EndMinute:   cfg.WorkDayEndMinute,
		},
		DeadlineBusinessDays: cfg.DeadlineBusiness,
	})
	c.Collector = cognitionServices.NewSignalCollector(c.EmailRepo, c.SnapshotRepo)

	c.CreateItemHandler = schedulingCommands.NewCreateWorkItemHandler(c.WorkItemRepo, c.UnitOfWork)
	c.SuggestBlockHandler = schedulingCommands.NewSuggestBlockHandler(
		c.WorkItemRepo, c.SnapshotRepo, c.Suggester, c.OutboxRepo, c.UnitOfWork)
	c.DecideHandler = schedulingCommands.NewDecidePlacementHandler(c.WorkItemRepo, c.UnitOfWork)
	c.RecomputeStateHandler = cognitionCommands.NewRecomputeStateHandler(
		c.Collector, c.StateRepo, c.OutboxRepo, c.UnitOfWork)
	c.LatestStateHandler = cognitionQueries.NewLatestStateHandler(c.StateRepo)
	c.CurrentOpinionHandler = cognitionQueries.NewCurrentOpinionHandler(c.Collector)
	c.UpsertSnapshotHandler = calendarCommands.NewUpsertSnapshotHandler(c.SnapshotStore, invalidator)

	return c, nil
}

// APIHandler builds the HTTP handler over the container's graph.
func (c *Container) APIHandler() *api.Handler {
	return api.NewHandler(api.HandlerConfig{
		UserID:         c.UserID,
		Logger:         c.Logger,
		CreateItem:     c.CreateItemHandler,
		SuggestBlock:   c.SuggestBlockHandler,
		Decide:         c.DecideHandler,
		RecomputeState: c.RecomputeStateHandler,
		LatestState:    c.LatestStateHandler,
		CurrentOpinion: c.CurrentOpinionHandler,
		UpsertSnapshot: c.UpsertSnapshotHandler,
	})
}

// Close releases the container's resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
