package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-assistant/internal/backup"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
)

type BackupConfig struct {
	Interval time.Duration
}

// Backup periodically triggers the backup collaborator.
type Backup struct {
	client backup.Client
	config BackupConfig
	logger *logger.Logger
}

func NewBackup(client backup.Client, config BackupConfig, logger *logger.Logger) *Backup {
	if config.Interval <= 0 {
		panic("Interval must be greater than 0")
	}
	return &Backup{client: client, config: config, logger: logger}
}

func (b *Backup) Start(ctx context.Context) {
	ticker := time.NewTicker(b.config.Interval)
	defer ticker.Stop()

	b.logger.Info("Starting scheduled backups", "interval", b.config.Interval.String())

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down scheduled backups")
			return
		case <-ticker.C:
			if err := b.client.BackupData(ctx); err != nil {
				b.logger.Error(err, "Scheduled backup failed")
				continue
			}
			b.logger.Info("Scheduled backup completed")
		}
	}
}
