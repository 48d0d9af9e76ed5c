package usecase

import (
	"context"
	"time"

	"healthmed-scheduler/internal/domain/entity"
	"healthmed-scheduler/internal/domain/messaging"
	"healthmed-scheduler/internal/domain/repository"
	"healthmed-scheduler/internal/service"
	"healthmed-scheduler/pkg/apperr"
	"healthmed-scheduler/pkg/contract"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	OpAppointmentAdd      = "appointment.add"
	OpAppointmentGet      = "appointment.get"
	OpAppointmentList     = "appointment.list"
	OpAppointmentUpdate   = "appointment.update"
	OpAppointmentDelete   = "appointment.delete"
	OpUserLookup          = "user.lookup"
	OpNotificationPublish = "notification.publish"
	OpEditedPublish       = "appointment_edited.publish"

	defaultOperationTimeout = 5 * time.Second
)

var ErrAppointmentNotFound = apperr.NotFound("appointment not found")

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, appointment *entity.Appointment) (*entity.Appointment, error)
	EditAppointment(ctx context.Context, id uuid.UUID, changes *entity.Appointment) (*entity.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	publisher       messaging.Publisher
	renderer        *service.NotificationRenderer
	timeout         time.Duration
	tracer          trace.Tracer
}

// NewAppointmentUsecase wires the appointment pipeline. timeout bounds every
// individual storage, lookup and publish call.
func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	publisher messaging.Publisher,
	renderer *service.NotificationRenderer,
	timeout time.Duration,
) AppointmentUsecase {
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		publisher:       publisher,
		renderer:        renderer,
		timeout:         timeout,
		tracer:          otel.Tracer("healthmed-scheduler/usecase"),
	}
}

// CreateAppointment validates, persists and announces a new appointment.
//
// Flow:
// 1. Validate fields (nothing is touched on failure)
// 2. Assign an id and persist
// 3. Resolve doctor and patient
// 4. Render the doctor's e-mail from the template
// 5. Hand the notification to the bus
//
// A failure after step 2 leaves the appointment persisted; it is not rolled back.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, appointment *entity.Appointment) (*entity.Appointment, error) {
	ctx, span := u.tracer.Start(ctx, "appointment.create")
	defer span.End()

	// Step 1: Validate
	if err := ValidateAppointment(appointment); err != nil {
		return nil, endSpan(span, err)
	}

	// Step 2: Persist
	appointment.EnsureID()
	span.SetAttributes(attribute.String("appointment.id", appointment.ID.String()))

	addCtx, cancel := context.WithTimeout(ctx, u.timeout)
	err := u.appointmentRepo.Add(addCtx, appointment)
	cancel()
	if err != nil {
		u.log.Warnf("Failed to persist appointment %s: %+v", appointment.ID, err)
		return nil, endSpan(span, apperr.Infrastructure(OpAppointmentAdd, storageMessage(err, "failed to persist appointment"), err))
	}

	// Step 3: Resolve participants
	doctor, patient, err := u.resolveParticipants(ctx, appointment)
	if err != nil {
		u.log.Warnf("Appointment %s persisted but participants could not be resolved: %+v", appointment.ID, err)
		return nil, endSpan(span, err)
	}

	// Step 4: Render
	notification := u.renderer.Render(doctor, patient, appointment.StartAt)

	// Step 5: Publish
	msg := contract.AppointmentNotificationMessage{
		AppointmentID: appointment.ID,
		Subject:       notification.Subject,
		Body:          notification.Body,
		Recipient:     notification.Recipient,
	}

	pubCtx, cancel := context.WithTimeout(ctx, u.timeout)
	err = u.publisher.PublishNotification(pubCtx, msg)
	cancel()
	if err != nil {
		u.log.Warnf("Appointment %s persisted but notification was not published: %+v", appointment.ID, err)
		return nil, endSpan(span, apperr.Infrastructure(OpNotificationPublish, "failed to publish appointment notification", err))
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, patient=%s, start=%s",
		appointment.ID, appointment.DoctorID, appointment.PatientID, appointment.StartAt.Format(time.RFC3339))
	return appointment, nil
}

// EditAppointment replaces the editable fields of an existing appointment,
// validates the result with the creation rules, persists it and publishes an
// EditAppointmentMessage.
func (u *appointmentUsecase) EditAppointment(ctx context.Context, id uuid.UUID, changes *entity.Appointment) (*entity.Appointment, error) {
	ctx, span := u.tracer.Start(ctx, "appointment.edit", trace.WithAttributes(attribute.String("appointment.id", id.String())))
	defer span.End()

	if changes == nil {
		return nil, endSpan(span, apperr.Validation(MsgAppointmentRequired))
	}

	appointment, err := u.findByID(ctx, id)
	if err != nil {
		return nil, endSpan(span, err)
	}

	appointment.Title = changes.Title
	appointment.Description = changes.Description
	appointment.StartAt = changes.StartAt
	appointment.FinishAt = changes.FinishAt
	appointment.DoctorID = changes.DoctorID
	appointment.PatientID = changes.PatientID

	if err := ValidateAppointment(appointment); err != nil {
		return nil, endSpan(span, err)
	}

	updCtx, cancel := context.WithTimeout(ctx, u.timeout)
	err = u.appointmentRepo.Update(updCtx, appointment)
	cancel()
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, endSpan(span, apperr.Infrastructure(OpAppointmentUpdate, storageMessage(err, "failed to update appointment"), err))
	}

	msg := contract.EditAppointmentMessage{
		ID:          appointment.ID,
		Title:       appointment.Title,
		Description: appointment.Description,
		StartAt:     appointment.StartAt,
		FinishAt:    appointment.FinishAt,
		DoctorID:    appointment.DoctorID,
		PatientID:   appointment.PatientID,
	}

	pubCtx, cancel := context.WithTimeout(ctx, u.timeout)
	err = u.publisher.PublishAppointmentEdited(pubCtx, msg)
	cancel()
	if err != nil {
		u.log.Warnf("Appointment %s updated but edit event was not published: %+v", id, err)
		return nil, endSpan(span, apperr.Infrastructure(OpEditedPublish, "failed to publish appointment edit", err))
	}

	u.log.Infof("Appointment edited: id=%s", id)
	return appointment, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	return u.findByID(ctx, id)
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	listCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	appointments, err := u.appointmentRepo.FindAll(listCtx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, apperr.Infrastructure(OpAppointmentList, "failed to list appointments", err)
	}
	return appointments, nil
}

func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	delCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	affected, err := u.appointmentRepo.Delete(delCtx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return apperr.Infrastructure(OpAppointmentDelete, "failed to delete appointment", err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	u.log.Infof("Appointment deleted: id=%s", id)
	return nil
}

func (u *appointmentUsecase) findByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	getCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	appointment, err := u.appointmentRepo.FindByID(getCtx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, apperr.Infrastructure(OpAppointmentGet, "failed to load appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// resolveParticipants looks up doctor and patient concurrently.
func (u *appointmentUsecase) resolveParticipants(ctx context.Context, appointment *entity.Appointment) (*entity.User, *entity.User, error) {
	var doctor, patient *entity.User

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		doctor, err = u.lookupUser(gctx, appointment.DoctorID)
		return err
	})
	g.Go(func() error {
		var err error
		patient, err = u.lookupUser(gctx, appointment.PatientID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, apperr.Infrastructure(OpUserLookup, "failed to resolve appointment participants", err)
	}
	return doctor, patient, nil
}

func (u *appointmentUsecase) lookupUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.userRepo.FindByID(lookupCtx, id)
}

// endSpan records err on span and returns it unchanged.
func endSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, apperr.GetKind(err).String())
	return err
}
