// Package app wires together all dependencies and runs the storefront
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"

	"github.com/refh96/catalogo-rancho-sub000/internal/config"
	"github.com/refh96/catalogo-rancho-sub000/internal/dispatch"
	dispatchmock "github.com/refh96/catalogo-rancho-sub000/internal/dispatch/mock"
	"github.com/refh96/catalogo-rancho-sub000/internal/dispatch/whatsapp"
	"github.com/refh96/catalogo-rancho-sub000/internal/event"
	handler "github.com/refh96/catalogo-rancho-sub000/internal/handler/http"
	fsrepo "github.com/refh96/catalogo-rancho-sub000/internal/repository/firestore"
	redisrepo "github.com/refh96/catalogo-rancho-sub000/internal/repository/redis"
	"github.com/refh96/catalogo-rancho-sub000/internal/service"
	"github.com/refh96/catalogo-rancho-sub000/pkg/health"
	"github.com/refh96/catalogo-rancho-sub000/pkg/httpclient"
	pkgkafka "github.com/refh96/catalogo-rancho-sub000/pkg/kafka"
	"github.com/refh96/catalogo-rancho-sub000/pkg/tracing"
)

// App holds the long-lived components of the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	firestore       *gfs.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing first so every later component picks up the global provider.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "catalogo-rancho",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis holds the cart ledgers.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Firestore holds the product catalog and storefront counters.
	fsClient, err := gfs.NewClient(ctx, cfg.FirestoreProjectID)
	if err != nil {
		return nil, fmt.Errorf("connect to firestore: %w", err)
	}
	logger.Info("connected to Firestore",
		slog.String("project", cfg.FirestoreProjectID),
	)

	// Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	cartRepo := redisrepo.NewCartRepository(rdb, cfg.CartTTL())
	productRepo := fsrepo.NewProductRepository(fsClient)
	counterRepo := fsrepo.NewCounterRepository(fsClient)
	eventProducer := event.NewProducer(producer, logger)

	sender := newSender(cfg, logger)
	logger.Info("order dispatch configured", slog.String("sender", sender.Name()))

	cartService := service.NewCartService(cartRepo, counterRepo, eventProducer, logger)
	orderService := service.NewOrderService(cartRepo, sender, cfg.OrderDestination, eventProducer, logger)
	productService := service.NewProductService(productRepo, logger)
	statsService := service.NewStatsService(counterRepo, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("firestore", func(ctx context.Context) error {
		_, err := fsClient.Collection("counters").Limit(1).Documents(ctx).GetAll()
		return err
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	router := handler.NewRouter(handler.RouterConfig{
		CartService:    cartService,
		OrderService:   orderService,
		ProductService: productService,
		StatsService:   statsService,
		HealthHandler:  healthHandler,
		Logger:         logger,
		AdminToken:     cfg.AdminToken,
		CORSOrigins:    cfg.CORSOrigins,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		firestore:       fsClient,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// newSender picks the dispatch sink: the WhatsApp gateway when configured,
// otherwise the logging mock.
func newSender(cfg *config.Config, logger *slog.Logger) dispatch.Sender {
	if cfg.WhatsAppGatewayURL == "" {
		return dispatchmock.New(logger)
	}

	client := httpclient.New(httpclient.DefaultConfig())
	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "whatsapp-gateway",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cb := httpclient.NewCircuitBreakerClient(client, cbCfg, logger)
	return whatsapp.New(cb, cfg.WhatsAppGatewayURL, logger)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.firestore.Close(); err != nil {
		a.logger.Error("firestore close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
