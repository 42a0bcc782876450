package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-assistant/internal/model"
	"github.com/jwalitptl/clinic-assistant/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, name, date_of_birth, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING number
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.DateOfBirth,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.Number)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, date_of_birth = $2, phone = $3, email = $4, address = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.DateOfBirth,
		patient.Phone,
		patient.Email,
		patient.Address,
		time.Now(),
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *patientRepository) List(ctx context.Context, limit, offset int) ([]*model.Patient, error) {
	query := `SELECT * FROM patients ORDER BY number LIMIT $1 OFFSET $2`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, limit, offset)
	return patients, err
}

func (r *patientRepository) Search(ctx context.Context, q string, limit, offset int) ([]*model.Patient, error) {
	query := `
		SELECT * FROM patients
		WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%'
		ORDER BY number
		LIMIT $2 OFFSET $3
	`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, q, limit, offset)
	return patients, err
}

func (r *patientRepository) AddNote(ctx context.Context, note *model.PatientNote) error {
	query := `
		INSERT INTO patient_notes (id, patient_id, text, author, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	note.ID = uuid.New()
	note.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query, note.ID, note.PatientID, note.Text, note.Author, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add patient note: %w", err)
	}
	return nil
}

func (r *patientRepository) GetNotes(ctx context.Context, patientID uuid.UUID) ([]*model.PatientNote, error) {
	query := `SELECT * FROM patient_notes WHERE patient_id = $1 ORDER BY created_at DESC`
	var notes []*model.PatientNote
	err := r.db.SelectContext(ctx, &notes, query, patientID)
	return notes, err
}
