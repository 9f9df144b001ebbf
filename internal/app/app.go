package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/utafrali/wishlist/internal/client"
	"github.com/utafrali/wishlist/internal/config"
	"github.com/utafrali/wishlist/internal/event"
	handler "github.com/utafrali/wishlist/internal/handler/http"
	"github.com/utafrali/wishlist/internal/repository/postgres"
	"github.com/utafrali/wishlist/internal/service"
	"github.com/utafrali/wishlist/migrations"
	"github.com/utafrali/wishlist/pkg/database"
	"github.com/utafrali/wishlist/pkg/health"
	"github.com/utafrali/wishlist/pkg/httpclient"
	pkgkafka "github.com/utafrali/wishlist/pkg/kafka"
	"github.com/utafrali/wishlist/pkg/middleware"
	"github.com/utafrali/wishlist/pkg/tracing"
)

// ServiceName identifies the service in logs, traces and metrics.
const ServiceName = "wishlist"

var initTracer = tracing.InitTracer

// App wires together all dependencies and runs the wishlist service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Resources acquired so far are released in reverse order if a later
	// step fails.
	var cleanups []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	reg := prometheus.DefaultRegisterer

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := initTracer(ctx, cfg.TracingConfig(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	cleanups = append(cleanups, func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutdownCancel()
		if err := tracerShutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	})

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.PostgresConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	cleanups = append(cleanups, pool.Close)
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(reg, pool, ServiceName); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Run database migrations.
	applied, err := database.RunMigrations(ctx, pool, migrations.FS, logger)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed", slog.Int("applied", len(applied)))

	// Configure slow query logging.
	if cfg.SlowQueryMS > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryMS)*time.Millisecond, logger)
	}

	// Domain events go to Kafka only when it is enabled.
	var (
		producer *pkgkafka.Producer
		events   service.EventPublisher = event.NoopPublisher{}
	)
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, pkgkafka.NewProducerMetrics(reg), logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Downstream clients share one pooled HTTP client. Each gets its own
	// breaker so a failing cart does not trip catalog lookups.
	httpClient := httpclient.New(cfg.HTTPClientConfig())
	var catalogDoer, cartDoer httpclient.Doer = httpClient, httpClient
	if cfg.CBEnabled {
		breakerMetrics := httpclient.NewBreakerMetrics(reg)
		catalogDoer = httpclient.NewCircuitBreakerClient(httpClient, cfg.CircuitBreakerConfig("catalog"), breakerMetrics, logger)
		cartDoer = httpclient.NewCircuitBreakerClient(httpClient, cfg.CircuitBreakerConfig("cart"), breakerMetrics, logger)
	}
	catalogClient := client.NewCatalogClient(cfg.CatalogServiceURL, catalogDoer, logger)
	cartClient := client.NewCartClient(cfg.CartServiceURL, cartDoer, logger)

	// Build the dependency graph.
	wishlistRepo := postgres.NewWishlistRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	wishlistService := service.NewWishlistService(wishlistRepo, itemRepo, catalogClient, cartClient, events, logger, service.Options{
		ResetEnabled: cfg.ResetEnabled,
		Metrics:      service.NewMetrics(reg),
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	// HTTP router.
	routerCfg := handler.RouterConfig{
		Metrics:        middleware.NewHTTPMetrics(reg, ServiceName),
		RequestTimeout: cfg.RequestTimeout(),
		CORS:           middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins},
	}
	if cfg.OTelEnabled {
		routerCfg.TracingName = ServiceName
	}
	router := handler.NewRouter(wishlistService, healthHandler, logger, routerCfg)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
