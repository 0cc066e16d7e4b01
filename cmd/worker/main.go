package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/saudelog/agenda-api/internal/config"
	"github.com/saudelog/agenda-api/internal/repository/postgres"
	applog "github.com/saudelog/agenda-api/pkg/logger"
	"github.com/saudelog/agenda-api/pkg/messaging/redis"
	"github.com/saudelog/agenda-api/pkg/metrics"
	"github.com/saudelog/agenda-api/pkg/worker"
)

// WorkerConfig is read from the environment. The worker deploys separately
// from the API, so it does not share the API's config file.
type WorkerConfig struct {
	DatabaseHost     string        `envconfig:"DB_HOST" default:"localhost"`
	DatabasePort     int           `envconfig:"DB_PORT" default:"5432"`
	DatabaseUser     string        `envconfig:"DB_USER" default:"postgres"`
	DatabasePassword string        `envconfig:"DB_PASSWORD"`
	DatabaseName     string        `envconfig:"DB_NAME" default:"agenda"`
	DatabaseSSLMode  string        `envconfig:"DB_SSLMODE" default:"disable"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	BatchSize        int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval     time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	MaxRetries       int           `envconfig:"MAX_RETRIES" default:"5"`
	RetryBackoff     time.Duration `envconfig:"RETRY_BACKOFF" default:"1m"`
	MetricsPort      string        `envconfig:"METRICS_PORT" default:"9090"`
}

func main() {
	var cfg WorkerConfig
	if err := envconfig.Process("worker", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	logger := applog.New(&applog.Config{
		Level:  applog.InfoLevel,
		Output: os.Stdout,
	}).ZL.With().Str("app", "agenda-worker").Logger()

	db, err := postgres.NewDB(config.DatabaseConfig{
		Host:         cfg.DatabaseHost,
		Port:         cfg.DatabasePort,
		User:         cfg.DatabaseUser,
		Password:     cfg.DatabasePassword,
		Name:         cfg.DatabaseName,
		SSLMode:      cfg.DatabaseSSLMode,
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to broker")
	}
	defer broker.Close()

	m := metrics.New("agenda_worker")

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:    cfg.BatchSize,
			PollInterval: cfg.PollInterval,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
		},
		logger,
		m,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	processor.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics server forced shutdown")
	}
}
