package converter

import (
	"healthmed-scheduler/internal/delivery/dto"
	"healthmed-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRequestToEntity converts a validated request DTO to an Appointment.
// Missing dates and identifiers become zero values.
func AppointmentRequestToEntity(req *dto.AppointmentRequest) *entity.Appointment {
	appointment := &entity.Appointment{
		Title:       req.Title,
		Description: req.Description,
		DoctorID:    parseOptionalUUID(req.DoctorID),
		PatientID:   parseOptionalUUID(req.PatientID),
	}
	if req.StartAt != nil {
		appointment.StartAt = *req.StartAt
	}
	if req.FinishAt != nil {
		appointment.FinishAt = *req.FinishAt
	}
	return appointment
}

// AppointmentListQueryToFilter converts validated query parameters to a filter
func AppointmentListQueryToFilter(query *dto.AppointmentListQuery) *entity.AppointmentFilter {
	return &entity.AppointmentFilter{
		DoctorID:  parseOptionalUUID(query.DoctorID),
		PatientID: parseOptionalUUID(query.PatientID),
	}
}

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := appointmentToResponse(*appointment)
	return &response
}

// AppointmentsToListResponse converts a slice of Appointment entities to AppointmentListResponse DTO
func AppointmentsToListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		responses[i] = appointmentToResponse(appointment)
	}
	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}

func appointmentToResponse(appointment entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          appointment.ID,
		Title:       appointment.Title,
		Description: appointment.Description,
		StartAt:     appointment.StartAt,
		FinishAt:    appointment.FinishAt,
		DoctorID:    appointment.DoctorID,
		PatientID:   appointment.PatientID,
		CreatedAt:   appointment.CreatedAt,
		UpdatedAt:   appointment.UpdatedAt,
	}
}

// parseOptionalUUID returns uuid.Nil for empty or malformed input; callers
// validate the format beforehand.
func parseOptionalUUID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
