package usecase

import (
	"healthmed-scheduler/internal/domain/entity"
	"healthmed-scheduler/pkg/apperr"

	"github.com/google/uuid"
)

const (
	MsgAppointmentRequired = "Appointment must be informed"
	MsgStartAtRequired     = "Initial appointment date cannot be null"
	MsgFinishAtRequired    = "Final appointment date cannot be null"
	MsgFinishBeforeStart   = "Final date must be greater than initial date"
	MsgDoctorCodeRequired  = "Doctor code must be informed"
)

// ValidateAppointment checks the appointment rules in a fixed order and
// returns the first violation as a validation error. Later rules are not
// evaluated once one fails.
//
// The patient id is not checked.
func ValidateAppointment(appointment *entity.Appointment) error {
	switch {
	case appointment == nil:
		return apperr.Validation(MsgAppointmentRequired)
	case !appointment.HasStart():
		return apperr.Validation(MsgStartAtRequired)
	case !appointment.HasFinish():
		return apperr.Validation(MsgFinishAtRequired)
	case !appointment.StartAt.Before(appointment.FinishAt):
		return apperr.Validation(MsgFinishBeforeStart)
	case appointment.DoctorID == uuid.Nil:
		return apperr.Validation(MsgDoctorCodeRequired)
	}
	return nil
}
