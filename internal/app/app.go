package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/catalog"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/config"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/event"
	handler "github.com/oushaabdelkhaleq88/ONIGIRI/internal/handler/http"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/repository"
	memoryrepo "github.com/oushaabdelkhaleq88/ONIGIRI/internal/repository/memory"
	redisrepo "github.com/oushaabdelkhaleq88/ONIGIRI/internal/repository/redis"
	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/service"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/health"
	pkgkafka "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/kafka"
)

// App wires together all dependencies and runs the ordering service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Load the embedded menu catalog.
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("menu catalog loaded", slog.Int("items", cat.Len()))

	// Initialize the cart store backend.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour

	var (
		rdb  *redis.Client
		repo repository.CartRepository
	)
	switch cfg.CartStore {
	case config.StoreRedis:
		rdb = redis.NewClient(&redis.Options{
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
		repo = redisrepo.NewCartRepository(rdb, cartTTL)
	case config.StoreMemory:
		logger.Info("using in-memory cart store")
		repo = memoryrepo.NewCartRepository(cartTTL)
	default:
		return nil, fmt.Errorf("unknown cart store: %q", cfg.CartStore)
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	eventProducer := event.NewProducer(producer, logger)
	cartService := service.NewCartService(repo, cat, eventProducer, logger, cartTTL)
	checkoutService := service.NewCheckoutService(
		cartService,
		eventProducer,
		logger,
		time.Duration(cfg.SettlementDelayMS)*time.Millisecond,
	)

	// Health checks.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(cat, cartService, checkoutService, healthHandler, logger, handler.RouterConfig{
		SubmitRateRPS:   cfg.SubmitRateRPS,
		SubmitRateBurst: cfg.SubmitRateBurst,
	})

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

	// Close Redis client when the redis store is in use.
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
