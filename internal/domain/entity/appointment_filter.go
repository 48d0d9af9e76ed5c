package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for listing appointments.
// Zero values are ignored.
type AppointmentFilter struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
}
