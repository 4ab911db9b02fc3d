package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a confirmed, authenticated identity record with a role.
// Created on verified signup or manual promotion; never hard-deleted.
type Profile struct {
	ID                     uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName               string     `gorm:"column:full_name;not null" json:"full_name"`
	Email                  string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash           string     `gorm:"column:password_hash;not null" json:"-"`
	Role                   string     `gorm:"column:role;not null;default:member" json:"role"`
	MemberRole             string     `gorm:"column:member_role" json:"member_role"`
	IsCoreTeam             bool       `gorm:"column:is_core_team;not null;default:false" json:"is_core_team"`
	LastSeenAnnouncementAt *time.Time `gorm:"column:last_seen_announcement_at" json:"last_seen_announcement_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
