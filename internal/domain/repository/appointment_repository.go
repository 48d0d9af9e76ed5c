package repository

import (
	"context"

	"healthmed-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository returns (nil, nil) from FindByID when no row matches.
type AppointmentRepository interface {
	Add(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}
