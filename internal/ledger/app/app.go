package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/statelock/codeledger/internal/ledger/guard"
	httpapi "github.com/statelock/codeledger/internal/ledger/http"
	"github.com/statelock/codeledger/internal/ledger/service"
	"github.com/statelock/codeledger/internal/ledger/store"
	"github.com/statelock/codeledger/internal/ledger/store/drivers/sqlite"
	"github.com/statelock/codeledger/pkg/cryptox"
	"github.com/statelock/codeledger/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the ledger service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	redisClient   *redis.Client // Optional: only when a throttle address is configured
	accessKeyHash string

	// Services
	ledgerService       *service.LedgerService
	directoryService    *service.DirectoryService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService
	verifyThrottle      *guard.VerifyThrottle

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "codeledger",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Hash the shared admin key once at startup; the plaintext is not kept.
	if cfg.AccessKey != "" {
		hash, err := cryptox.HashKey(cfg.AccessKey)
		if err != nil {
			return nil, fmt.Errorf("failed to hash access key: %w", err)
		}
		app.accessKeyHash = hash
	} else {
		app.logger.Warn("no access key configured, admin surface is open")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initThrottle()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("ledger service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ledger service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ledger service stopped")
	return nil
}

// Handler exposes the fully wired HTTP handler, used by in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Store exposes the backing store, used by in-process tests for seeding.
func (app *Application) Store() store.Store {
	return app.db
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initThrottle wires the redis-backed verify throttle when an address is
// configured. Without one the throttle stays nil and verification relies on
// the HTTP rate limits alone.
func (app *Application) initThrottle() {
	if app.cfg.RedisAddr == "" {
		app.logger.Info("verify throttle disabled, no redis address configured")
		return
	}

	app.redisClient = redis.NewClient(&redis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
	})
	app.verifyThrottle = guard.NewVerifyThrottle(
		app.redisClient,
		app.cfg.ThrottleMaxFailures,
		app.cfg.ThrottleCooldown,
	)
	app.logger.Info("verify throttle enabled",
		"max_failures", app.cfg.ThrottleMaxFailures,
		"cooldown", app.cfg.ThrottleCooldown,
	)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.ledgerService = &service.LedgerService{Store: app.db}
	app.directoryService = &service.DirectoryService{Store: app.db}
	app.auditService = &service.AuditService{
		Store:  app.db,
		Logger: app.logger,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AttemptRetention,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessKeyHash,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.LedgerService = app.ledgerService
	router.DirectoryService = app.directoryService
	router.AuditService = app.auditService
	router.VerifyThrottle = app.verifyThrottle // nil when redis is not configured
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
