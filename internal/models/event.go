package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event modes and types.
const (
	ModeEvent    = "event"
	ModeWorkshop = "workshop"

	TypeIndividual = "individual"
	TypeTeam       = "team"
)

// Event statuses. Status is the authoritative lifecycle gate for every
// write operation (registration, cancellation, deletion).
const (
	StatusUpcoming         = "upcoming"
	StatusRegistrationOpen = "registration_open"
	StatusOngoing          = "ongoing"
	StatusCompleted        = "completed"
	StatusCancelled        = "cancelled"
)

// Event is a scheduled activity; a workshop is a non-competitive subtype
// distinguished by Mode.
type Event struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title                string     `gorm:"column:title;not null" json:"title"`
	Description          string     `gorm:"column:description" json:"description"`
	Mode                 string     `gorm:"column:mode;type:varchar(20);not null;default:'event'" json:"mode"`
	Type                 string     `gorm:"column:type;type:varchar(20);not null;default:'individual'" json:"type"`
	Status               string     `gorm:"column:status;type:varchar(30);not null;default:'upcoming'" json:"status"`
	MaxParticipants      int        `gorm:"column:max_participants;not null;default:0" json:"max_participants"`
	TeamSize             int        `gorm:"column:team_size;not null;default:0" json:"team_size"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline" json:"registration_deadline"`
	StartDate            *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate              *time.Time `gorm:"column:end_date" json:"end_date"`
	Category             string     `gorm:"column:category" json:"category"`
	BannerURL            string     `gorm:"column:banner_url" json:"banner_url"`
	MeetingLink          string     `gorm:"column:meeting_link" json:"meeting_link"`
	CreatedBy            uuid.UUID  `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ValidStatus reports whether s is a known event status.
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusRegistrationOpen, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
