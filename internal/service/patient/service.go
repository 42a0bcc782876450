package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
	"github.com/jwalitptl/clinic-assistant/pkg/errors"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context, limit, offset int) ([]*model.Patient, error)
	SearchPatients(ctx context.Context, query string, limit, offset int) ([]*model.Patient, error)
	AddNote(ctx context.Context, patientID uuid.UUID, req *model.AddPatientNoteRequest) (*model.PatientNote, error)
	GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.Name == "" {
		return nil, errors.Validation("patient name is required")
	}

	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}

	if req.DateOfBirth != "" {
		dob, err := model.ParseDate(req.DateOfBirth)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("invalid date of birth: %v", err))
		}
		patient.DateOfBirth = dob
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("patient", err)
	}
	return patient, nil
}

// UpdatePatient merges only the fields present in req into the stored
// record; absent fields retain their prior values.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.NotFound("patient", err)
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.DateOfBirth != nil {
		dob, err := model.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("invalid date of birth: %v", err))
		}
		patient.DateOfBirth = dob
	}
	patient.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return errors.NotFound("patient", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) SearchPatients(ctx context.Context, query string, limit, offset int) ([]*model.Patient, error) {
	patients, err := s.repo.Search(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

func (s *Service) AddNote(ctx context.Context, patientID uuid.UUID, req *model.AddPatientNoteRequest) (*model.PatientNote, error) {
	if req.Text == "" {
		return nil, errors.Validation("note text is required")
	}
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return nil, errors.NotFound("patient", err)
	}

	note := &model.PatientNote{
		PatientID: patientID,
		Text:      req.Text,
		Author:    req.Author,
	}
	if err := s.repo.AddNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return note, nil
}

func (s *Service) GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	notes, err := s.repo.GetNotes(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes: %w", err)
	}
	return notes, nil
}
