// Package contract holds the messages this service publishes on the bus.
// Consumers in other services decode these payloads, so field names and
// JSON tags are part of the public wire format.
package contract

import (
	"time"

	"github.com/google/uuid"
)

// Event type names, also used as the default topic / stream names.
const (
	EventAppointmentNotification = "appointment.notification.v1"
	EventAppointmentEdited       = "appointment.edited.v1"
)

// Message is implemented by every published payload.
type Message interface {
	EventType() string
	// PartitionKey keeps messages about the same appointment ordered.
	PartitionKey() string
}

// AppointmentNotificationMessage carries a rendered e-mail for the doctor of
// a newly created appointment. The consumer only has to deliver it.
type AppointmentNotificationMessage struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	Recipient     string    `json:"recipient"`
}

func (AppointmentNotificationMessage) EventType() string { return EventAppointmentNotification }

func (m AppointmentNotificationMessage) PartitionKey() string { return m.AppointmentID.String() }

// EditAppointmentMessage is published after an appointment has been edited.
type EditAppointmentMessage struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"startAt"`
	FinishAt    time.Time `json:"finishAt"`
	DoctorID    uuid.UUID `json:"doctorId"`
	PatientID   uuid.UUID `json:"patientId"`
}

func (EditAppointmentMessage) EventType() string { return EventAppointmentEdited }

func (m EditAppointmentMessage) PartitionKey() string { return m.ID.String() }
