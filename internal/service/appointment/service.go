package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type AppointmentService interface {
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	ListAppointments(ctx context.Context, limit, offset int) ([]*model.Appointment, error)
	GetAppointmentsByDate(ctx context.Context, date string) ([]*model.Appointment, error)
}

type Service struct {
	repo repository.AppointmentRepository
}

func NewService(repo repository.AppointmentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.PatientID == "" && req.PatientName == "" {
		return nil, errors.Validation("patient is required")
	}
	if req.Date == "" {
		return nil, errors.Validation("appointment date is required")
	}

	date, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid appointment date: %v", err))
	}

	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		PatientName: req.PatientName,
		Date:        date,
		Time:        req.Time,
		Type:        req.Type,
		Duration:    req.Duration,
		Notes:       req.Notes,
		Status:      model.AppointmentStatusScheduled,
	}
	if appointment.Duration <= 0 {
		appointment.Duration = model.DefaultAppointmentDuration
	}
	if req.PatientID != "" {
		pid, err := uuid.Parse(req.PatientID)
		if err != nil {
			return nil, errors.Validation("invalid patient id")
		}
		appointment.PatientID = pid
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}
	return appointment, nil
}

// UpdateAppointment merges only the fields present in req; absent fields
// retain their prior values.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("appointment", err)
	}

	if req.PatientID != nil {
		pid, err := uuid.Parse(*req.PatientID)
		if err != nil {
			return nil, errors.Validation("invalid patient id")
		}
		appointment.PatientID = pid
	}
	if req.PatientName != nil {
		appointment.PatientName = *req.PatientName
	}
	if req.Date != nil {
		date, err := model.ParseDate(*req.Date)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("invalid appointment date: %v", err))
		}
		appointment.Date = date
	}
	if req.Time != nil {
		appointment.Time = *req.Time
	}
	if req.Type != nil {
		appointment.Type = *req.Type
	}
	if req.Duration != nil && *req.Duration > 0 {
		appointment.Duration = *req.Duration
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	appointment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return errors.NotFound("appointment", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// GetAppointmentsByDate accepts any supported date form, including
// day/month/year with slashes, and queries on the canonical day.
func (s *Service) GetAppointmentsByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("invalid date: %v", err))
	}
	appointments, err := s.repo.GetByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments by date: %w", err)
	}
	return appointments, nil
}
