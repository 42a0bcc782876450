package model

import "github.com/google/uuid"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// DefaultAppointmentDuration is applied when no duration is supplied.
const DefaultAppointmentDuration = 30

// Appointment carries both a patient reference and a denormalized patient
// name; the two may disagree and the name is kept as supplied.
type Appointment struct {
	Base
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id,omitempty"`
	PatientName string            `db:"patient_name" json:"patient_name"`
	Date        Date              `db:"date" json:"date"`
	Time        string            `db:"time" json:"time,omitempty"`
	Type        string            `db:"type" json:"type,omitempty"`
	Duration    int               `db:"duration" json:"duration"`
	Notes       string            `db:"notes" json:"notes,omitempty"`
	Status      AppointmentStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Duration    int    `json:"duration" binding:"omitempty,min=1"`
	Notes       string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	PatientID   *string            `json:"patient_id"`
	PatientName *string            `json:"patient_name"`
	Date        *string            `json:"date"`
	Time        *string            `json:"time"`
	Type        *string            `json:"type"`
	Duration    *int               `json:"duration"`
	Notes       *string            `json:"notes"`
	Status      *AppointmentStatus `json:"status"`
}
