package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions.
const (
	AuditAttendanceUpdated = "attendance_updated"
	AuditPointsAdjusted    = "points_adjusted"
)

// EventAuditLog is an append-only record of administrative actions.
// Rows are write-once and never mutated.
type EventAuditLog struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;not null;index" json:"event_id"`
	ActorID   uuid.UUID      `gorm:"column:actor_id;type:uuid;not null" json:"actor_id"`
	Action    string         `gorm:"column:action;not null" json:"action"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

func (EventAuditLog) TableName() string {
	return "event_audit_logs"
}

func (l *EventAuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
