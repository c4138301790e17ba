package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lucy-college/common/logger"
	"lucy-college/common/telemetry"
	"lucy-college/internal/auth"
	"lucy-college/internal/config"
	"lucy-college/internal/db"
	"lucy-college/internal/department"
	"lucy-college/internal/events"
	"lucy-college/internal/faculty"
	"lucy-college/internal/grpcserver"
	"lucy-college/internal/health"
	"lucy-college/internal/metrics"
	"lucy-college/internal/middleware"
	"lucy-college/internal/registry"
	"lucy-college/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type App struct {
	config     *config.Config
	router     chi.Router
	server     *http.Server
	grpcServer *grpcserver.Server
	logger     *slog.Logger

	database    *bun.DB
	redis       *redis.Client
	publisher   events.Publisher
	telemetry   *telemetry.Telemetry
	pruner      *auth.RevocationPruner
	stopPruning context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "git_commit", GitCommit, "build_time", BuildTime)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	app.telemetry, err = telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		TracesEndpoint: cfg.Telemetry.TracesEndpoint,
		ServiceName:    ServiceName,
		ServiceVersion: Version,
		Env:            cfg.Env,
	}, slogLogger)
	if err != nil {
		return nil, err
	}
	infra := app.telemetry.Metrics

	domainMetrics, err := metrics.New(infra.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize domain metrics: %w", err)
	}

	app.database, err = db.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	tables := append(user.Tables(), auth.Tables()...)
	tables = append(tables, faculty.Tables()...)
	tables = append(tables, department.Tables()...)
	if err := db.RunMigrations(ctx, app.database, tables...); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	checkers := []health.Checker{
		health.CheckFunc{DependencyName: "postgres", Fn: app.database.PingContext},
	}

	var ledger auth.Ledger
	switch cfg.Revocation.Backend {
	case "redis":
		app.redis, err = auth.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		ledger = auth.NewRedisLedger(app.redis, slogLogger)
		checkers = append(checkers, health.CheckFunc{DependencyName: "redis", Fn: func(ctx context.Context) error {
			return app.redis.Ping(ctx).Err()
		}})
	default:
		pgLedger := auth.NewPostgresLedger(app.database, infra)
		ledger = pgLedger
		app.pruner = auth.NewRevocationPruner(pgLedger, domainMetrics, slogLogger, cfg.Revocation.PruneInterval)
	}
	slogLogger.Info("revocation ledger ready", "backend", cfg.Revocation.Backend)

	app.publisher, err = events.NewPublisher(cfg.Events, infra.Events, slogLogger)
	if err != nil {
		// Events are best-effort; the API keeps working without a broker.
		slogLogger.Warn("failed to initialize event publisher", "driver", cfg.Events.Driver, "error", err)
		app.publisher = events.Noop{}
	}

	// Auth
	users := user.NewRepository(app.database, infra)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	authenticator := auth.NewAuthenticator(tokens, ledger, domainMetrics)
	authService := auth.NewService(users, user.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, ledger, app.publisher, domainMetrics, slogLogger)
	authHandler := auth.NewHandler(authService, authenticator, slogLogger)

	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
	}

	// Faculties and departments share one code registry
	facultyRepo := faculty.NewRepository(app.database, infra)
	departmentRepo := department.NewRepository(app.database, infra)
	codes := registry.New(facultyRepo, departmentRepo, domainMetrics)

	facultyHandler := faculty.NewHandler(
		faculty.NewService(facultyRepo, codes, app.publisher, domainMetrics, slogLogger), slogLogger)
	departmentHandler := department.NewHandler(
		department.NewService(departmentRepo, codes, app.publisher, domainMetrics, slogLogger), slogLogger)

	healthHandler := health.NewHandler(infra.Health, slogLogger, checkers...)
	if err := infra.Health.RegisterDependencies(infra.Meter(), healthHandler.Names()...); err != nil {
		slogLogger.Warn("failed to register dependency gauges", "error", err)
	}

	httpMetrics := middleware.NewHTTPMetrics("college")

	app.router.Use(chimiddleware.RequestID)
	app.router.Use(chimiddleware.RealIP)
	app.router.Use(chimiddleware.Recoverer)
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.router.Use(httpMetrics.Middleware)

	// Unauthenticated probes and scrape endpoint
	healthHandler.RegisterRoutes(app.router)
	app.router.Handle("/metrics", httpMetrics.Handler())

	authHandler.RegisterRoutes(app.router)

	app.router.Route("/api", func(r chi.Router) {
		facultyHandler.RegisterPublicRoutes(r)
		departmentHandler.RegisterPublicRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticator.Middleware(slogLogger))
			r.Use(auth.RequireRoles(slogLogger, auth.AdminRoles...))
			facultyHandler.RegisterAdminRoutes(r)
			departmentHandler.RegisterAdminRoutes(r)
		})
	})

	app.grpcServer = grpcserver.New(infra, slogLogger)

	slogLogger.Info("application initialized successfully")
	return app, nil
}

// Run blocks serving HTTP; the gRPC health server and the pruner run alongside.
func (a *App) Run() error {
	var pruneCtx context.Context
	pruneCtx, a.stopPruning = context.WithCancel(context.Background())
	if a.pruner != nil {
		go a.pruner.Start(pruneCtx)
	}

	go func() {
		if err := a.grpcServer.ListenAndServe(a.config.GRPC.Port); err != nil {
			a.logger.Error("gRPC server error", "error", err)
		}
	}()
	a.grpcServer.SetServing(true)

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      otelhttp.NewHandler(a.router, "http.server"),
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	if a.stopPruning != nil {
		a.stopPruning()
	}

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.grpcServer != nil {
		a.grpcServer.Stop()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("event publisher close error", "error", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", "error", err)
		}
	}
	db.Close(a.database)

	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Handler exposes the assembled router.
func (a *App) Handler() http.Handler {
	return a.router
}
