// Package app wires together all dependencies and runs the storefront
// service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/internal/config"
	"github.com/shopkit/storefront/internal/event"
	handler "github.com/shopkit/storefront/internal/handler/http"
	"github.com/shopkit/storefront/internal/payment"
	"github.com/shopkit/storefront/internal/provider"
	"github.com/shopkit/storefront/internal/provider/fixture"
	redisprovider "github.com/shopkit/storefront/internal/provider/redis"
	"github.com/shopkit/storefront/pkg/health"
	"github.com/shopkit/storefront/pkg/httpclient"
	pkgkafka "github.com/shopkit/storefront/pkg/kafka"
	"github.com/shopkit/storefront/pkg/tracing"
)

// App holds the wired dependency graph for the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *goredis.Client
	producer        *pkgkafka.Producer
	catalogStore    *catalog.Store
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthHandler := health.NewHandler()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Product provider.
	var (
		prov provider.Provider
		rdb  *goredis.Client
	)
	switch cfg.ProviderMode {
	case config.ProviderModeRedis:
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

		redisProv := redisprovider.NewProvider(rdb)
		healthHandler.Register("redis", redisProv.Ping)
		prov = redisProv
	default:
		prov = fixture.New(time.Duration(cfg.ProviderDelayMS) * time.Millisecond)
	}

	// Payment gateway.
	var gateway payment.Gateway
	switch cfg.PaymentMode {
	case config.PaymentModeHTTP:
		cbClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("payment"),
			logger,
		)
		gateway = payment.NewHTTPGateway(cbClient, cfg.PaymentURL, logger)
	default:
		gateway = payment.NewSimulated(time.Duration(cfg.PaymentDelayMS) * time.Millisecond)
	}

	// Domain event producer.
	var (
		producer *pkgkafka.Producer
		events   *event.Producer
	)
	if cfg.EventsEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// State containers.
	catalogStore := catalog.NewStore(prov, events, logger)
	cartStore := cart.NewStore(gateway, events, logger)

	// HTTP router.
	router := handler.NewRouter(catalogStore, cartStore, healthHandler, logger)

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
		producer:        producer,
		catalogStore:    catalogStore,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Kick off the initial catalog load. A failed load leaves the catalog
	// in the failed state; operators can retry through the load endpoint.
	if a.cfg.LoadOnStartup {
		go func() {
			loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := a.catalogStore.Load(loadCtx); err != nil {
				a.logger.Error("initial catalog load failed", slog.String("error", err.Error()))
			}
		}()
	}

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

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
