package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wholesale_crm_backend/internal/adapters"
	"wholesale_crm_backend/internal/adapters/storage"
	"wholesale_crm_backend/internal/buyers"
	"wholesale_crm_backend/internal/dashboard"
	"wholesale_crm_backend/internal/documents"
	"wholesale_crm_backend/internal/email"
	"wholesale_crm_backend/internal/events"
	apphttp "wholesale_crm_backend/internal/http"
	"wholesale_crm_backend/internal/http/router"
	"wholesale_crm_backend/internal/leads"
	"wholesale_crm_backend/internal/matching"
	"wholesale_crm_backend/internal/notification"
	"wholesale_crm_backend/internal/offers"
	"wholesale_crm_backend/internal/scheduler"
	"wholesale_crm_backend/internal/tasks"
	taskservice "wholesale_crm_backend/internal/tasks/service"
	"wholesale_crm_backend/platform/config"
	"wholesale_crm_backend/platform/db"
	"wholesale_crm_backend/platform/logger"
	"wholesale_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(pool, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// Tasks module first; leads and buyers generate follow-up tasks through it
	tasksModule := tasks.NewModule(pool, reminderScheduler, eventBus, val, log)

	followUpGenerator := adapters.NewTaskFollowUpAdapter(tasksModule.Service())
	onboardingGenerator := adapters.NewBuyerOnboardingAdapter(tasksModule.Service())

	leadsModule := leads.NewModule(pool, followUpGenerator, eventBus, val, log)
	buyersModule := buyers.NewModule(pool, onboardingGenerator, eventBus, val, log)
	matchingModule := matching.NewModule(pool)
	offersModule := offers.NewModule(pool, eventBus, val)
	dashboardModule := dashboard.NewModule(leadsModule.Repository(), tasksModule.Repository(), buyersModule.Repository())

	modules := []apphttp.Module{
		leadsModule,
		buyersModule,
		matchingModule,
		tasksModule,
		offersModule,
		dashboardModule,
	}

	// Documents need MinIO; the module is skipped when storage is unconfigured
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure lead documents bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucket(ctx)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketLeadDocuments())

		modules = append(modules, documents.NewModule(pool, storageSvc, val, log))
	} else {
		log.Warn("MINIO_ENDPOINT not configured; document storage disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (taskservice.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; task due reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
