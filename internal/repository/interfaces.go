package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
)

// All repository interfaces in one file
type (
	// Pinger reports whether the backing database is reachable. The
	// dispatcher checks this before any data-mutating action.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, limit, offset int) ([]*model.Patient, error)
		Search(ctx context.Context, query string, limit, offset int) ([]*model.Patient, error)
		AddNote(ctx context.Context, note *model.PatientNote) error
		GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, limit, offset int) ([]*model.Appointment, error)
		GetByDate(ctx context.Context, date model.Date) ([]*model.Appointment, error)
	}

	DeadlineRepository interface {
		Create(ctx context.Context, deadline *model.Deadline) error
		Get(ctx context.Context, id uuid.UUID) (*model.Deadline, error)
		Update(ctx context.Context, deadline *model.Deadline) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, limit, offset int) ([]*model.Deadline, error)
		GetByDate(ctx context.Context, date model.Date) ([]*model.Deadline, error)
	}

	InventoryRepository interface {
		Create(ctx context.Context, item *model.InventoryItem) error
		Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
		Update(ctx context.Context, item *model.InventoryItem) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, limit, offset int) ([]*model.InventoryItem, error)
		// GetLowStock is a dedicated query; the database applies the
		// threshold logic rather than the cache filtering client-side.
		GetLowStock(ctx context.Context) ([]*model.InventoryItem, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}

	SettingRepository interface {
		Get(ctx context.Context, key string) (string, error)
		Set(ctx context.Context, key, value string) error
	}
)
