package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification kinds.
const (
	NotifInvitationReceived  = "invitation_received"
	NotifInvitationCancelled = "invitation_cancelled"
	NotifInvitationResponded = "invitation_responded"
	NotifApplicationReceived = "application_received"
	NotifApplicationDecided  = "application_decided"
)

// Notification stores the team/event references directly so renderers never
// have to recover them from message text.
type Notification struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	Kind        string     `gorm:"column:kind;not null" json:"kind"`
	Message     string     `gorm:"column:message;not null" json:"message"`
	TeamID      *uuid.UUID `gorm:"column:team_id;type:uuid" json:"team_id"`
	EventID     *uuid.UUID `gorm:"column:event_id;type:uuid" json:"event_id"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
