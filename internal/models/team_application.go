package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application statuses.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// TeamApplication is the member-initiated direction of team joining.
// Withdrawable only while pending.
type TeamApplication struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	TeamID    uuid.UUID `gorm:"column:team_id;type:uuid;not null;index" json:"team_id"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null" json:"event_id"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (TeamApplication) TableName() string {
	return "team_applications"
}

func (a *TeamApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
