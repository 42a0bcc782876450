package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-assistant/internal/backup"
	"github.com/jwalitptl/clinic-assistant/internal/config"
	"github.com/jwalitptl/clinic-assistant/internal/email"
	"github.com/jwalitptl/clinic-assistant/internal/repository/postgres"
	clinicworker "github.com/jwalitptl/clinic-assistant/internal/worker"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
	"github.com/jwalitptl/clinic-assistant/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
	"github.com/jwalitptl/clinic-assistant/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("clinic", "worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	deadlineRepo := postgres.NewDeadlineRepository(db)

	brokerLogger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &brokerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger, appMetrics)
	go processor.Start(ctx)

	cleaner := worker.NewOutboxCleaner(outboxRepo, worker.OutboxCleanerConfig{
		Retention: cfg.Outbox.Retention,
		Interval:  cfg.Outbox.CleanupInterval,
	}, appLogger)
	go cleaner.Start(ctx)

	if cfg.Email.Enabled && cfg.Email.To != "" {
		mailer := email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
		reminder := clinicworker.NewReminder(deadlineRepo, mailer, clinicworker.ReminderConfig{
			Recipient:     cfg.Email.To,
			CheckInterval: cfg.Email.CheckInterval,
			WindowDays:    cfg.Email.ReminderWindow,
		}, appLogger)
		go reminder.Start(ctx)
	}

	if cfg.Backup.Interval > 0 && cfg.Backup.URL != "" {
		backupClient := backup.NewHTTPClient(backup.Config{
			URL:     cfg.Backup.URL,
			Timeout: cfg.Backup.Timeout,
		})
		scheduled := clinicworker.NewBackup(backupClient, clinicworker.BackupConfig{
			Interval: cfg.Backup.Interval,
		}, appLogger)
		go scheduled.Start(ctx)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down workers...")
	cancel()
}
