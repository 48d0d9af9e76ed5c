package entity

// Role represents the kind of account a user holds
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

