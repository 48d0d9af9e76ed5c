package converter

import (
	"testing"
	"time"

	"healthmed-scheduler/internal/delivery/dto"
	"healthmed-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

func TestAppointmentRequestToEntity(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 30, 0, 0, time.UTC)
	doctorID := uuid.New()

	got := AppointmentRequestToEntity(&dto.AppointmentRequest{
		Title:    "Check-up",
		StartAt:  &start,
		DoctorID: doctorID.String(),
	})

	if !got.StartAt.Equal(start) {
		t.Fatalf("expected start %s, got %s", start, got.StartAt)
	}
	if got.HasFinish() {
		t.Fatal("omitted finish date must stay zero")
	}
	if got.DoctorID != doctorID || got.PatientID != uuid.Nil {
		t.Fatalf("unexpected ids: doctor=%s patient=%s", got.DoctorID, got.PatientID)
	}
}

func TestAppointmentsToListResponse(t *testing.T) {
	appointments := []entity.Appointment{{ID: uuid.New(), Title: "a"}, {ID: uuid.New(), Title: "b"}}

	got := AppointmentsToListResponse(appointments)
	if got.Total != 2 || got.Appointments[1].Title != "b" {
		t.Fatalf("unexpected list response: %+v", got)
	}

	empty := AppointmentsToListResponse(nil)
	if empty.Appointments == nil || empty.Total != 0 {
		t.Fatal("expected an empty, non-nil list")
	}
}
