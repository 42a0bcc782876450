package model

import (
	"time"

	"github.com/google/uuid"
)

// PatientNote is a free-text note attached to a patient record.
type PatientNote struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Text      string    `db:"text" json:"text"`
	Author    string    `db:"author" json:"author,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AddPatientNoteRequest struct {
	Text   string `json:"text" binding:"required"`
	Author string `json:"author"`
}
