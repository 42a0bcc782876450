// Package worker holds the clinic-side background loops.
package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-assistant/internal/email"
	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
)

type ReminderConfig struct {
	Recipient     string
	CheckInterval time.Duration
	// WindowDays is how far ahead a deadline may be to warrant a
	// reminder.
	WindowDays int
}

// Reminder periodically mails a digest of deadlines due within the
// configured window.
type Reminder struct {
	deadlines repository.DeadlineRepository
	mailer    email.Service
	config    ReminderConfig
	logger    *logger.Logger
}

func NewReminder(deadlines repository.DeadlineRepository, mailer email.Service, config ReminderConfig, logger *logger.Logger) *Reminder {
	if config.CheckInterval <= 0 {
		panic("CheckInterval must be greater than 0")
	}
	if config.WindowDays <= 0 {
		panic("WindowDays must be greater than 0")
	}
	return &Reminder{deadlines: deadlines, mailer: mailer, config: config, logger: logger}
}

func (r *Reminder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.CheckInterval)
	defer ticker.Stop()

	r.logger.Info("Starting deadline reminder")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Shutting down deadline reminder")
			return
		case <-ticker.C:
			if err := r.remind(ctx); err != nil {
				r.logger.Error(err, "Failed to send deadline reminders")
			}
		}
	}
}

func (r *Reminder) remind(ctx context.Context) error {
	all, err := r.deadlines.List(ctx, 1000, 0)
	if err != nil {
		return err
	}

	today := model.Today()
	cutoff := today.AddDate(0, 0, r.config.WindowDays)

	var due []*model.Deadline
	for _, d := range all {
		if d.Date.IsZero() {
			continue
		}
		if !d.Date.Before(today.Time) && !d.Date.After(cutoff) {
			due = append(due, d)
		}
	}
	if len(due) == 0 {
		return nil
	}

	if err := r.mailer.SendDeadlineReminder(ctx, r.config.Recipient, due); err != nil {
		return err
	}
	r.logger.Info("Sent deadline reminder", "deadlines", len(due))
	return nil
}
