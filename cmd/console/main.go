package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-console/internal/api/http"
	"github.com/spec-kit/ticket-console/internal/api/http/handlers"
	"github.com/spec-kit/ticket-console/internal/api/http/views"
	"github.com/spec-kit/ticket-console/internal/auth"
	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/events"
	"github.com/spec-kit/ticket-console/internal/gateway"
	"github.com/spec-kit/ticket-console/internal/listing"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/persistence"
	"github.com/spec-kit/ticket-console/internal/repository"
	"github.com/spec-kit/ticket-console/internal/service"
	"github.com/spec-kit/ticket-console/internal/session"
	"github.com/spec-kit/ticket-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redis *persistence.Redis
	if cfg.Session.Backend == config.SessionBackendRedis {
		if redis, err = persistence.NewRedis(ctx, cfg.Redis, logger); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
	}

	checks := map[string]handlers.Check{}
	var backend session.Backend
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		backend = session.NewRedisBackend(redis.Client)
		checks["redis"] = redis.Ping
	case config.SessionBackendPostgres:
		sessionRepo := repository.NewSessionRepository(pg.PoolHandle())
		backend = session.NewPostgresBackend(sessionRepo)
		worker.StartSessionSweeper(ctx, sessionRepo, 10*time.Minute, logger)
	default:
		backend = session.NewMemoryBackend()
	}
	checks["sessions"] = backend.Ping
	if pg.Enabled() {
		checks["postgres"] = pg.Ping
	}

	metrics := observability.NewMetrics()
	client := gateway.New(cfg.API, logger, metrics)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authService := service.NewAuthService(client, dispatcher, time.Now, logger)

	var auditService *service.AuditService
	if cfg.Audit.Enabled {
		var auditRepo repository.AuditRepository
		if pg.Enabled() {
			auditRepo = repository.NewAuditRepository(pg.PoolHandle())
		}
		auditService = service.NewAuditService(dispatcher, auditRepo, logger)
		worker.StartAuditWorker(auditService)
	}

	workspaces := service.NewWorkspaceRegistry(service.WorkspaceDependencies{
		Client:     client,
		Dispatcher: dispatcher,
		Auth:       authService,
		Options: listing.Options{
			PageSize:         cfg.Console.PageSize,
			FilterResetsPage: cfg.Console.FilterResetsPage,
		},
		Now:    time.Now,
		Logger: logger,
	})
	janitorDone := worker.StartWorkspaceJanitor(ctx, workspaces, cfg.Console.WorkspaceIdle(), 0, logger)

	visitors := auth.NewVisitors(backend, session.NewSealer(cfg.Session.Secret), cfg.Session.TTL(), cfg.Session.CookieName, cfg.Session.CookieSecure)
	gate := auth.NewGateMiddleware(visitors.Store, time.Now, logger)
	renderer := views.NewRenderer()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, renderer, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, checks),
		Auth:     handlers.NewAuthHandler(authService, workspaces, visitors.Store, renderer, logger),
		Admin:    handlers.NewAdminHandler(workspaces, visitors.Store, auditService, renderer, logger),
		User:     handlers.NewUserHandler(workspaces, visitors.Store, renderer, logger),
		Visitors: visitors,
		Gate:     gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.ShutdownWithTimeout(10 * time.Second)
	cancel()
	<-janitorDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
