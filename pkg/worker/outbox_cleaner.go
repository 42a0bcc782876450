package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
)

type OutboxCleanerConfig struct {
	Retention time.Duration
	Interval  time.Duration
}

// OutboxCleaner deletes processed events past the retention window so the
// outbox table stays bounded.
type OutboxCleaner struct {
	repo   repository.OutboxRepository
	config OutboxCleanerConfig
	logger *logger.Logger
}

func NewOutboxCleaner(repo repository.OutboxRepository, config OutboxCleanerConfig, logger *logger.Logger) *OutboxCleaner {
	if config.Retention <= 0 {
		panic("Retention must be greater than 0")
	}
	if config.Interval <= 0 {
		panic("Interval must be greater than 0")
	}
	return &OutboxCleaner{repo: repo, config: config, logger: logger}
}

func (c *OutboxCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	c.logger.Info("Starting outbox cleaner")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Shutting down outbox cleaner")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-c.config.Retention)
			deleted, err := c.repo.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				c.logger.Error(err, "Failed to clean up outbox")
				continue
			}
			if deleted > 0 {
				c.logger.Info("Cleaned up processed outbox events", "deleted", deleted)
			}
		}
	}
}
