package entity

// Placeholders recognised in NotificationTemplate.Body
const (
	PlaceholderDoctorName  = "{doctor_name}"
	PlaceholderPatientName = "{patient_name}"
	PlaceholderDate        = "{date}"
	PlaceholderTime        = "{time}"
)

// NotificationTemplate is the e-mail sent to the doctor when an appointment
// is created. It is configuration, loaded once at startup.
type NotificationTemplate struct {
	Subject string
	Body    string
}

// Notification is a rendered template addressed to a recipient.
type Notification struct {
	Subject   string
	Body      string
	Recipient string
}
