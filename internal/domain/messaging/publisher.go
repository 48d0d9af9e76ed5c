package messaging

import (
	"context"

	"healthmed-scheduler/pkg/contract"
)

// Publisher hands messages to the bus. A nil error means the broker accepted
// the message; delivery to consumers is the bus's responsibility.
type Publisher interface {
	PublishNotification(ctx context.Context, msg contract.AppointmentNotificationMessage) error
	PublishAppointmentEdited(ctx context.Context, msg contract.EditAppointmentMessage) error
	Close() error
}
