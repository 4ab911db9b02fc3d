package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification types.
const (
	VerificationSignup = "signup"
)

// Verification stores the sha256 hash of an emailed token; the raw token
// never touches the database. Consumed on successful callback.
type Verification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;not null;index" json:"email"`
	TokenHash string    `gorm:"column:token_hash;not null;uniqueIndex" json:"-"`
	Type      string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	// Bcrypt hash of the signup password, promoted onto the Profile once
	// the email is verified.
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Verification) TableName() string {
	return "verifications"
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
