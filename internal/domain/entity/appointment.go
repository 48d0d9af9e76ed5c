package entity

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a scheduled meeting between a doctor and a patient.
// A zero StartAt or FinishAt means the date was not informed.
type Appointment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StartAt     time.Time `gorm:"not null;index" json:"start_at"`
	FinishAt    time.Time `gorm:"not null" json:"finish_at"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;index" json:"patient_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// HasStart reports whether the initial date was informed
func (a *Appointment) HasStart() bool {
	return !a.StartAt.IsZero()
}

// HasFinish reports whether the final date was informed
func (a *Appointment) HasFinish() bool {
	return !a.FinishAt.IsZero()
}

// EnsureID assigns a new identifier when the appointment has none.
func (a *Appointment) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}
