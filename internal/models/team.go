package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is a group of members competing in a team-type event, with one leader.
// Points accumulate via core-team point adjustments.
type Team struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"column:name;not null" json:"name"`
	LeaderID     uuid.UUID  `gorm:"column:leader_id;type:uuid;not null" json:"leader_id"`
	EventID      uuid.UUID  `gorm:"column:event_id;type:uuid;not null" json:"event_id"`
	TournamentID *uuid.UUID `gorm:"column:tournament_id;type:uuid" json:"tournament_id"`
	Points       int        `gorm:"column:points;not null;default:0" json:"points"`
	IsTournament bool       `gorm:"column:is_tournament;not null;default:false" json:"is_tournament"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamMember is a membership row; used to compute counts and exclusions.
type TeamMember struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TeamID   uuid.UUID `gorm:"column:team_id;type:uuid;not null;uniqueIndex:idx_team_member" json:"team_id"`
	MemberID uuid.UUID `gorm:"column:member_id;type:uuid;not null;uniqueIndex:idx_team_member" json:"member_id"`
	JoinedAt time.Time `gorm:"column:joined_at;not null" json:"joined_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
