package usecase

import (
	"testing"
	"time"

	"healthmed-scheduler/internal/domain/entity"
	"healthmed-scheduler/pkg/apperr"

	"github.com/google/uuid"
)

func TestValidateAppointment(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC)
	finish := time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC)
	doctorID := uuid.New()

	tests := []struct {
		name        string
		appointment entity.Appointment
		wantMsg     string
	}{
		{
			name:        "missing start wins over everything",
			appointment: entity.Appointment{FinishAt: finish},
			wantMsg:     MsgStartAtRequired,
		},
		{
			name:        "missing start and finish",
			appointment: entity.Appointment{},
			wantMsg:     MsgStartAtRequired,
		},
		{
			name:        "missing finish",
			appointment: entity.Appointment{StartAt: start, DoctorID: doctorID},
			wantMsg:     MsgFinishAtRequired,
		},
		{
			name:        "finish before start",
			appointment: entity.Appointment{StartAt: start, FinishAt: start.Add(-30 * time.Minute), DoctorID: doctorID},
			wantMsg:     MsgFinishBeforeStart,
		},
		{
			name:        "finish equal to start",
			appointment: entity.Appointment{StartAt: start, FinishAt: start, DoctorID: doctorID},
			wantMsg:     MsgFinishBeforeStart,
		},
		{
			name:        "date order is checked before the doctor",
			appointment: entity.Appointment{StartAt: start, FinishAt: start.Add(-30 * time.Minute)},
			wantMsg:     MsgFinishBeforeStart,
		},
		{
			name:        "missing doctor",
			appointment: entity.Appointment{StartAt: start, FinishAt: finish, PatientID: uuid.New()},
			wantMsg:     MsgDoctorCodeRequired,
		},
		{
			name:        "valid without patient",
			appointment: entity.Appointment{StartAt: start, FinishAt: finish, DoctorID: doctorID},
		},
		{
			name:        "valid",
			appointment: entity.Appointment{StartAt: start, FinishAt: finish, DoctorID: doctorID, PatientID: uuid.New()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppointment(&tt.appointment)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %q, got nil", tt.wantMsg)
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, err.Error())
			}
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected a validation error, got kind %s", apperr.GetKind(err))
			}
		})
	}
}

func TestValidateAppointment_IsRepeatable(t *testing.T) {
	appointment := &entity.Appointment{FinishAt: time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC)}

	first := ValidateAppointment(appointment)
	for i := 0; i < 5; i++ {
		err := ValidateAppointment(appointment)
		if err == nil || err.Error() != first.Error() {
			t.Fatalf("run %d: expected %q, got %v", i, first, err)
		}
	}
	if appointment.ID != uuid.Nil {
		t.Fatal("validation must not mutate the appointment")
	}
}

func TestValidateAppointment_Nil(t *testing.T) {
	err := ValidateAppointment(nil)
	if err == nil || err.Error() != MsgAppointmentRequired {
		t.Fatalf("expected %q, got %v", MsgAppointmentRequired, err)
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected a validation error, got kind %s", apperr.GetKind(err))
	}
}
