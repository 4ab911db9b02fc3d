package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant statuses. Confirmed is derived from attendance.
const (
	ParticipantRegistered = "registered"
	ParticipantConfirmed  = "confirmed"
)

// EventParticipant is a user's registration row for a given event.
// FullName/Email are denormalized snapshots taken at registration time so
// the roster survives later profile edits. The (event_id, user_id) unique
// index backs the duplicate-registration guard.
type EventParticipant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventID      uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_user" json:"event_id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_event_user" json:"user_id"`
	FullName     string    `gorm:"column:full_name;not null" json:"full_name"`
	Email        string    `gorm:"column:email;not null" json:"email"`
	Status       string    `gorm:"column:status;type:varchar(20);not null;default:'registered'" json:"status"`
	Attended     bool      `gorm:"column:attended;not null;default:false" json:"attended"`
	RegisteredAt time.Time `gorm:"column:registered_at;not null" json:"registered_at"`
}

func (EventParticipant) TableName() string {
	return "event_participants"
}

func (p *EventParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
