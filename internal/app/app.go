// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zinedinarnaut/torqueindex/internal/config"
	"github.com/Zinedinarnaut/torqueindex/internal/event"
	httphandler "github.com/Zinedinarnaut/torqueindex/internal/handler/http"
	"github.com/Zinedinarnaut/torqueindex/internal/repository/postgres"
	"github.com/Zinedinarnaut/torqueindex/internal/repository/postgres/migrations"
	"github.com/Zinedinarnaut/torqueindex/internal/scraper"
	"github.com/Zinedinarnaut/torqueindex/internal/service"
	"github.com/Zinedinarnaut/torqueindex/pkg/database"
	"github.com/Zinedinarnaut/torqueindex/pkg/health"
	"github.com/Zinedinarnaut/torqueindex/pkg/httpclient"
	"github.com/Zinedinarnaut/torqueindex/pkg/kafka"
)

const userAgent = "torqueindex/0.2"

// App holds the running service and its owned resources.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	pool      *pgxpool.Pool
	producer  *kafka.Producer
	scheduler *scraper.Scheduler
	server    *http.Server
}

// New builds the application: database pool, migrations, Kafka producer,
// scrape pipeline, HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := database.NewPostgresPoolWithLogger(ctx, &database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	stores, err := cfg.Stores()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load store registry: %w", err)
	}

	var producer *kafka.Producer
	var events scraper.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
	}

	scrapeCfg := scraper.Config{
		PageLimit:        cfg.PageLimit,
		MaxPages:         cfg.MaxPages,
		PageDelay:        cfg.PageDelay(),
		StoreConcurrency: cfg.StoreConcurrency,
		Max429Retries:    cfg.Max429Retries,
		RetryBaseDelay:   cfg.RetryBaseDelay(),
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.UserAgent = userAgent
	client := httpclient.New(clientCfg)

	repo := postgres.NewModRepository(pool, logger)
	fetcher := scraper.NewFetcher(client, scrapeCfg, logger)
	paginator := scraper.NewPaginator(fetcher, scrapeCfg, logger)
	orchestrator := scraper.NewOrchestrator(stores, paginator, repo, events, scrapeCfg.StoreConcurrency, logger)
	scheduler := scraper.NewScheduler(orchestrator, cfg.RefreshInterval(), logger)

	modService := service.NewModService(repo, orchestrator, stores, logger)
	handler := httphandler.NewModHandler(modService, logger)

	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httphandler.NewRouter(handler, healthHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		producer:  producer,
		scheduler: scheduler,
		server:    server,
	}, nil
}

// Run starts the HTTP server and the scrape scheduler, then blocks until
// SIGINT/SIGTERM or a fatal server error, shutting down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	schedulerCtx, cancelScheduler := context.WithCancel(ctx)
	defer cancelScheduler()
	go a.scheduler.Run(schedulerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	cancelScheduler()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close failed", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
