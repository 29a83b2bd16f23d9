package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration for the purchase order API.
type Config struct {
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Kafka       KafkaConfig
	Idempotency IdempotencyConfig
	Telemetry   TelemetryConfig
	Service     ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace int
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

type StorageConfig struct {
	Driver           string
	DetailFetchLimit int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether order events should go to Kafka.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type IdempotencyConfig struct {
	Backend   string
	RedisAddr string
	TTL       time.Duration
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	IdempotencyBackendPostgres = "postgres"
	IdempotencyBackendMemory   = "memory"
	IdempotencyBackendRedis    = "redis"
)

const (
	defaultHTTPPort           = 3001
	defaultMetricsPath        = "/metrics"
	defaultShutdownGrace      = 15
	defaultMigrationsPath     = "migrations"
	defaultAutoMigrate        = true
	defaultDetailFetchLimit   = 8
	defaultKafkaTopic         = "ordenes.compra.events"
	defaultRedisAddr          = "localhost:6379"
	defaultIdempotencyTTL     = 24 * time.Hour
	defaultServiceName        = "ordenes-api"
	defaultServiceVersion     = "0.1.0"
	defaultEnvironment        = "development"
	defaultLogLevel           = "info"
	defaultOTelSampleRate     = 1.0
	defaultDatabaseName       = "ordenes"
	defaultDatabaseMaxConns   = "25"
	defaultDatabaseMinConns   = "5"
	defaultDatabaseMaxConnAge = "5m"
)

// Load reads configuration from environment variables, applying defaults when needed.
func Load() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, fmt.Errorf("loading HTTP config: %w", err)
	}

	storageCfg, err := loadStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("loading storage config: %w", err)
	}

	idemCfg, err := loadIdempotencyConfig(storageCfg.Driver)
	if err != nil {
		return nil, fmt.Errorf("loading idempotency config: %w", err)
	}

	telCfg, err := loadTelemetryConfig()
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	return &Config{
		HTTP:        httpCfg,
		Database:    loadDatabaseConfig(),
		Storage:     storageCfg,
		Kafka:       loadKafkaConfig(),
		Idempotency: idemCfg,
		Telemetry:   telCfg,
		Service:     loadServiceConfig(),
	}, nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	port, err := getIntEnv("API_HTTP_PORT", defaultHTTPPort)
	if err != nil {
		return HTTPConfig{}, err
	}

	shutdownGrace, err := getIntEnv("API_SHUTDOWN_GRACE_SECONDS", defaultShutdownGrace)
	if err != nil {
		return HTTPConfig{}, err
	}

	return HTTPConfig{
		Port:          port,
		MetricsPath:   getEnvOrDefault("API_METRICS_PATH", defaultMetricsPath),
		ShutdownGrace: shutdownGrace,
	}, nil
}

func loadDatabaseConfig() DatabaseConfig {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = buildDatabaseURL()
	}

	return DatabaseConfig{
		URL:            databaseURL,
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", defaultAutoMigrate),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}
}

func loadStorageConfig() (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageDriverPostgres))
	if driver != StorageDriverPostgres && driver != StorageDriverMemory {
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER %q", driver)
	}

	limit, err := getIntEnv("ORDERS_DETAIL_FETCH_LIMIT", defaultDetailFetchLimit)
	if err != nil {
		return StorageConfig{}, err
	}
	if limit < 1 {
		return StorageConfig{}, fmt.Errorf("invalid ORDERS_DETAIL_FETCH_LIMIT: must be positive, got %d", limit)
	}

	return StorageConfig{
		Driver:           driver,
		DetailFetchLimit: limit,
	}, nil
}

func loadKafkaConfig() KafkaConfig {
	var brokers []string
	if value, ok := os.LookupEnv("KAFKA_BROKERS"); ok && value != "" {
		for _, broker := range strings.Split(value, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}

	return KafkaConfig{
		Brokers: brokers,
		Topic:   getEnvOrDefault("KAFKA_ORDERS_TOPIC", defaultKafkaTopic),
	}
}

// loadIdempotencyConfig defaults the backend to the storage driver so a memory-only
// deployment needs no database.
func loadIdempotencyConfig(storageDriver string) (IdempotencyConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("IDEMPOTENCY_BACKEND", storageDriver))
	switch backend {
	case IdempotencyBackendPostgres, IdempotencyBackendMemory, IdempotencyBackendRedis:
	default:
		return IdempotencyConfig{}, fmt.Errorf("invalid IDEMPOTENCY_BACKEND %q", backend)
	}

	if backend == IdempotencyBackendPostgres && storageDriver != StorageDriverPostgres {
		return IdempotencyConfig{}, fmt.Errorf("IDEMPOTENCY_BACKEND=postgres requires STORAGE_DRIVER=postgres")
	}

	ttl := defaultIdempotencyTTL
	if value, ok := os.LookupEnv("IDEMPOTENCY_TTL"); ok && value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return IdempotencyConfig{}, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
		}
		ttl = parsed
	}

	return IdempotencyConfig{
		Backend:   backend,
		RedisAddr: getEnvOrDefault("REDIS_ADDR", defaultRedisAddr),
		TTL:       ttl,
	}, nil
}

func loadTelemetryConfig() (TelemetryConfig, error) {
	sampleRate := defaultOTelSampleRate
	if value, ok := os.LookupEnv("OTEL_SAMPLE_RATE"); ok && value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
		sampleRate = parsed
	}

	return TelemetryConfig{
		LogLevel:      getEnvOrDefault("LOG_LEVEL", defaultLogLevel),
		OTelEndpoint:  getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableTracing: getBoolEnv("OTEL_ENABLE_TRACING", true),
		EnableMetrics: getBoolEnv("OTEL_ENABLE_METRICS", true),
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:        getEnvOrDefault("API_SERVICE_NAME", defaultServiceName),
		Version:     getEnvOrDefault("SERVICE_VERSION", defaultServiceVersion),
		Environment: getEnvOrDefault("ENVIRONMENT", defaultEnvironment),
	}
}

func buildDatabaseURL() string {
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbName := getEnvOrDefault("DB_NAME", defaultDatabaseName)
	sslMode := getEnvOrDefault("DB_SSLMODE", "disable")

	maxConns := getEnvOrDefault("DB_MAX_CONNS", defaultDatabaseMaxConns)
	minConns := getEnvOrDefault("DB_MIN_CONNS", defaultDatabaseMinConns)
	maxLifetime := getEnvOrDefault("DB_MAX_CONN_LIFETIME", defaultDatabaseMaxConnAge)

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%s&pool_min_conns=%s&pool_max_conn_lifetime=%s",
		user, password, host, port, dbName, sslMode, maxConns, minConns, maxLifetime,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return value == "true"
	}
	return defaultValue
}
