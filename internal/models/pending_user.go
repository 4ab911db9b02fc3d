package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingUser is a provisional signup record created by an invite/approval
// step. It is consumed exactly once: deleted when the matching Profile is
// created (verified signup or manual promotion). A PendingUser and a Profile
// for the same email never coexist.
type PendingUser struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName   string    `gorm:"column:full_name;not null" json:"full_name"`
	Email      string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Role       string    `gorm:"column:role;not null;default:member" json:"role"`
	MemberRole string    `gorm:"column:member_role" json:"member_role"`
	IsCoreTeam bool      `gorm:"column:is_core_team;not null;default:false" json:"is_core_team"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PendingUser) TableName() string {
	return "pending_users"
}

func (p *PendingUser) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
