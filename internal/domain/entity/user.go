package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is owned by the identity subsystem. This service only reads Name and
// Email to address appointment notifications.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	NationalID       string    `gorm:"column:national_id;type:varchar(14);uniqueIndex" json:"national_id"`
	MedicalLicenseID string    `gorm:"column:medical_license_id;type:varchar(20)" json:"medical_license_id,omitempty"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role             Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

