package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/catalog"
	"github.com/prwkhar/aura-gift/internal/checkout"
	"github.com/prwkhar/aura-gift/internal/config"
	"github.com/prwkhar/aura-gift/internal/event"
	handler "github.com/prwkhar/aura-gift/internal/handler/http"
	redisrepo "github.com/prwkhar/aura-gift/internal/repository/redis"
	"github.com/prwkhar/aura-gift/pkg/health"
	"github.com/prwkhar/aura-gift/pkg/httpclient"
	pkgkafka "github.com/prwkhar/aura-gift/pkg/kafka"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	catalog    *catalog.Service
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Catalog: fetched from the remote CSV source with retries, behind a
	// circuit breaker so a flapping source is not hammered. A failed
	// initial load is not fatal; the catalog stays unavailable until a
	// refresh succeeds.
	catalogClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	catalogService := catalog.NewService(cfg.CatalogURL, catalogClient, logger)
	if err := catalogService.Refresh(ctx); err != nil {
		logger.Warn("initial catalog load failed",
			slog.String("url", cfg.CatalogURL),
			slog.String("error", err.Error()),
		)
	}

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	handoffRepo := redisrepo.NewHandoffRepository(rdb, cartTTL)

	eventProducer := event.NewProducer(producer, logger)

	carts := cart.NewManager(cfg.Strategy(), cartRepo, catalogService, logger)
	carts.Subscribe(eventProducer.CartListener())

	// The relay call is deliberately one-shot. Retrying a submission that
	// may have reached the relay risks duplicate orders.
	checkoutClient := httpclient.New(httpclient.OneShotConfig(30 * time.Second))
	checkoutService := checkout.NewService(
		cfg.CheckoutRelayURL,
		cfg.CheckoutAccessKey,
		checkoutClient,
		handoffRepo,
		eventProducer,
		logger,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("catalog", catalogService.Ping)

	// HTTP router.
	router := handler.NewRouter(catalogService, carts, checkoutService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		catalog:    catalogService,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
