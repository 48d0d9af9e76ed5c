package service

import (
	"strings"
	"time"

	"healthmed-scheduler/internal/domain/entity"
)

const (
	notificationDateLayout = "2006-01-02"
	notificationTimeLayout = "15:04"
)

// NotificationRenderer fills the configured template. It does no I/O.
type NotificationRenderer struct {
	template entity.NotificationTemplate
	location *time.Location
}

// NewNotificationRenderer creates a renderer. When location is nil dates are
// rendered in the location the appointment start carries.
func NewNotificationRenderer(template entity.NotificationTemplate, location *time.Location) *NotificationRenderer {
	return &NotificationRenderer{
		template: template,
		location: location,
	}
}

// Render builds the notification addressed to the doctor.
func (r *NotificationRenderer) Render(doctor, patient *entity.User, startAt time.Time) entity.Notification {
	if r.location != nil {
		startAt = startAt.In(r.location)
	}

	return entity.Notification{
		Subject:   r.template.Subject,
		Body:      RenderTemplateBody(r.template.Body, userName(doctor), userName(patient), startAt),
		Recipient: userEmail(doctor),
	}
}

// RenderTemplateBody substitutes every placeholder occurrence in body.
// Unknown placeholders are left untouched.
func RenderTemplateBody(body, doctorName, patientName string, startAt time.Time) string {
	replacer := strings.NewReplacer(
		entity.PlaceholderDoctorName, doctorName,
		entity.PlaceholderPatientName, patientName,
		entity.PlaceholderDate, startAt.Format(notificationDateLayout),
		entity.PlaceholderTime, startAt.Format(notificationTimeLayout),
	)
	return replacer.Replace(body)
}

func userName(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func userEmail(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
