package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/salonbook/booking-api/internal/config"
	"github.com/salonbook/booking-api/internal/email"
	"github.com/salonbook/booking-api/internal/repository/postgres"
	notificationService "github.com/salonbook/booking-api/internal/service/notification"
	internalworker "github.com/salonbook/booking-api/internal/worker"
	"github.com/salonbook/booking-api/pkg/logger"
	"github.com/salonbook/booking-api/pkg/messaging/redis"
	"github.com/salonbook/booking-api/pkg/metrics"
	"github.com/salonbook/booking-api/pkg/worker"
)

// WorkerConfig tunes the outbox processor. Values come from the
// environment so deployments can scale batch sizes without touching
// the shared config file.
type WorkerConfig struct {
	BatchSize    int           `envconfig:"BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`
	MaxRetries   int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `envconfig:"RETRY_DELAY" default:"30s"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var workerCfg WorkerConfig
	if err := envconfig.Process("WORKER", &workerCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.New("salonbook_worker", registry)

	outboxRepo := postgres.NewOutboxRepository(db)
	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    workerCfg.BatchSize,
		PollInterval: workerCfg.PollInterval,
		MaxRetries:   workerCfg.MaxRetries,
		RetryDelay:   workerCfg.RetryDelay,
	}, appLogger, appMetrics)

	notificationSvc := notificationService.NewService(postgres.NewNotificationRepository(db))
	emailSvc := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := internalworker.NewNotifier(broker, notificationSvc, emailSvc, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go func() {
		if err := notifier.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start notification worker")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down workers")
	cancel()
}
