package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dejobratic/ordenes/internal/config"
	"github.com/dejobratic/ordenes/internal/database"
	idemmemory "github.com/dejobratic/ordenes/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/ordenes/internal/idempotency/postgres"
	idemredis "github.com/dejobratic/ordenes/internal/idempotency/redis"
	"github.com/dejobratic/ordenes/internal/kafka"
	"github.com/dejobratic/ordenes/internal/orders/adapters"
	httpadapter "github.com/dejobratic/ordenes/internal/orders/adapters/http"
	ordersmemory "github.com/dejobratic/ordenes/internal/orders/adapters/memory"
	orderspostgres "github.com/dejobratic/ordenes/internal/orders/adapters/postgres"
	ordersapp "github.com/dejobratic/ordenes/internal/orders/app"
	ordersmetrics "github.com/dejobratic/ordenes/internal/orders/metrics"
	"github.com/dejobratic/ordenes/internal/orders/ports"
	"github.com/dejobratic/ordenes/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := telemetry.Meter()
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return err
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		return err
	}
	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		return err
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		pool *pgxpool.Pool
		repo ports.OrderRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err = openDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		registry.MustRegister(database.NewPoolCollector(pool))
		repo = orderspostgres.NewRepository(pool)
	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		repo = ordersmemory.NewRepository()
	}
	repo = adapters.NewObservableRepository(repo, dbMetrics)

	var events ports.EventBus = kafka.NewNoopEventBus()
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("failed to close kafka producer", "error", err)
			}
		}()
		events = producer
		logger.Info("publishing order events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	events = adapters.NewObservableEventBus(events, kafkaMetrics)

	idemStore, closeIdem, err := openIdempotencyStore(ctx, cfg.Idempotency, pool)
	if err != nil {
		return err
	}
	defer closeIdem()

	service := ordersapp.NewService(repo, events, idemStore, logger, orderMetrics, ordersapp.Options{
		DetailFetchLimit: cfg.Storage.DetailFetchLimit,
	})

	router := mux.NewRouter()
	router.Use(httpadapter.WithMetrics(httpMetrics))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}).Methods(http.MethodGet)
	router.Handle(cfg.HTTP.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	httpadapter.NewHandler(service, logger).Register(router)

	handler := httpadapter.WithRecovery(logger)(router)
	handler = httpadapter.WithLogging(logger)(handler)
	handler = httpadapter.WithRequestID(handler)
	handler = otelhttp.NewHandler(handler, cfg.Service.Name)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

// openDatabase connects, migrates and checks that the catalogue tables answer.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.MigrationsPath)
		version, err := database.RunMigrations(cfg.URL, cfg.MigrationsPath)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("migrations completed successfully", "version", version)
	}

	probe, err := database.ProbeSuppliers(ctx, pool)
	switch {
	case err != nil:
		logger.Warn("connection check failed", "error", err)
	case !probe.Exists:
		logger.Info("connection check ok, proveedores is empty")
	default:
		logger.Info("connection check ok", "proveedor_id", probe.ID, "proveedor", probe.Name)
	}

	return pool, nil
}

func openIdempotencyStore(ctx context.Context, cfg config.IdempotencyConfig, pool *pgxpool.Pool) (ports.IdempotencyStore, func(), error) {
	switch cfg.Backend {
	case config.IdempotencyBackendRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return idemredis.NewStore(client, cfg.TTL), func() { _ = client.Close() }, nil
	case config.IdempotencyBackendPostgres:
		return idempostgres.NewStore(pool, cfg.TTL), func() {}, nil
	default:
		return idemmemory.NewStore(cfg.TTL), func() {}, nil
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
