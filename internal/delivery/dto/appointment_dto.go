package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// AppointmentRequest is used for both create and edit. Dates are pointers so
// that an omitted date reaches the appointment rules as "not informed".
type AppointmentRequest struct {
	Title       string     `json:"title" validate:"max=255"`
	Description string     `json:"description" validate:"max=2000"`
	StartAt     *time.Time `json:"start_at"`  // RFC 3339
	FinishAt    *time.Time `json:"finish_at"` // RFC 3339
	DoctorID    string     `json:"doctor_id" validate:"omitempty,uuid"`
	PatientID   string     `json:"patient_id" validate:"omitempty,uuid"`
}

type AppointmentListQuery struct {
	DoctorID  string `validate:"omitempty,uuid"`
	PatientID string `validate:"omitempty,uuid"`
}

// Response DTOs

type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_at"`
	FinishAt    time.Time `json:"finish_at"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
