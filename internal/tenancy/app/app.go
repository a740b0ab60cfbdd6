package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/aussiebroadwan/tenancy/internal/tenancy/http"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/jobs"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/telemetry"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/lockx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "tenancy-service"
)

// dispatcher is a notification queue the application owns and closes.
type dispatcher interface {
	service.NotificationDispatcher
	Close() error
}

// Application encapsulates the tenancy service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         *sqlite.Store
	redis      *redis.Client // nil without REDIS_ADDR
	dispatcher dispatcher
	tracing    func(context.Context) error

	// Services
	tokenService        *service.TokenService
	authorizer          *service.MembershipAuthorizer
	tenantService       *service.TenantService
	inviteService       *service.InviteService
	auditService        *service.AuditService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised. On error
// anything already opened is closed again.
func New(cfg Config) (_ *Application, err error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		tracing: func(context.Context) error { return nil },
	}
	defer func() {
		if err != nil {
			app.closeResources()
		}
	}()

	if err := app.cfg.Validate(app.logger); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()
	app.tracing = telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Version:     BuildVersion,
		Endpoint:    app.cfg.OTLPEndpoint,
		Insecure:    app.cfg.OTLPInsecure,
	}, app.logger)

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initQueue(ctx); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully routed HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (app *Application) Run(ctx context.Context) error {
	app.housekeepingService.Start()

	app.logger.Info("tenancy service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"env", app.cfg.Env,
		"queue", app.queueMode(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			app.logger.Info("shutdown signal received")
		}
		return app.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down tenancy service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	err := app.closeResources()
	if err := app.tracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	app.logger.Info("tenancy service stopped")
	return err
}

// closeResources releases everything opened by New. The audit writer drains
// before the database closes.
func (app *Application) closeResources() error {
	if app.auditService != nil {
		app.auditService.Close()
	}
	if app.dispatcher != nil {
		if err := app.dispatcher.Close(); err != nil {
			app.logger.Error("error closing notification queue", "error", err)
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initQueue connects the notification queue. Without Redis, invite emails
// are delivered in-process by the same handler the notifier worker runs.
func (app *Application) initQueue(ctx context.Context) error {
	if app.cfg.RedisAddr == "" {
		mailer := &jobs.LogMailer{Logger: app.logger, FailureRate: app.cfg.NotifyFailureRate}
		app.dispatcher = jobs.NewInlineDispatcher(jobs.NewHandler(mailer, app.logger), app.cfg.NotifyRetention, app.logger)
		app.logger.Warn("REDIS_ADDR not set, delivering notifications in-process")
		return nil
	}

	client, err := connectRedis(ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.redis = client
	app.dispatcher = jobs.NewDispatcher(app.cfg.Redis(), jobs.DispatcherConfig{
		MaxRetry:  app.cfg.NotifyMaxRetry,
		Retention: app.cfg.NotifyRetention,
	})
	return nil
}

func (app *Application) queueMode() string {
	if app.redis == nil {
		return "inline"
	}
	return "redis"
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	access, err := jwtx.NewHMAC([]byte(app.cfg.AccessSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("access token signer: %w", err)
	}
	refresh, err := jwtx.NewHMAC([]byte(app.cfg.RefreshSecret), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("refresh token signer: %w", err)
	}

	retry := service.RetryPolicy{OpTimeout: app.cfg.StoreOpTimeout}

	app.auditService = service.NewAuditService(app.db)
	app.authorizer = &service.MembershipAuthorizer{Store: app.db, Retry: retry}
	app.tokenService = &service.TokenService{
		Store:         app.db,
		AccessSigner:  access,
		RefreshSigner: refresh,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
		Retry:         retry,
	}
	app.tenantService = &service.TenantService{
		Store: app.db,
		Audit: app.auditService,
		Retry: retry,
	}
	app.inviteService = &service.InviteService{
		Store:      app.db,
		Authorizer: app.authorizer,
		Dispatcher: app.dispatcher,
		Audit:      app.auditService,
		InviteTTL:  app.cfg.InviteTTL,
		Retry:      retry,
	}
	if app.redis != nil {
		app.inviteService.Locker = lockx.NewRedisLocker(app.redis, "tenancy:lock:")
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(BuildVersion, app.db, app.logger)
	app.router.TokenService = app.tokenService
	app.router.Authorizer = app.authorizer
	app.router.TenantService = app.tenantService
	app.router.InviteService = app.inviteService
	app.router.AuditService = app.auditService
	app.router.ExposeInviteTokens = app.cfg.ExposeInviteTokens
	app.router.RequestTimeout = app.cfg.RequestTimeout
	if app.redis != nil {
		app.router.Redis = app.redis
	}
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              ":" + strconv.Itoa(app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
