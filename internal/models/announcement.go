package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement audiences. Filtering is a list-side concern: all variants
// are stored identically and excluded only at read time.
const (
	AudienceAll      = "all"
	AudienceCoreTeam = "core-team"
	AudienceMembers  = "members"
)

type Announcement struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Content        string     `gorm:"column:content;not null" json:"content"`
	IsImportant    bool       `gorm:"column:is_important;not null;default:false" json:"is_important"`
	TargetAudience string     `gorm:"column:target_audience;type:varchar(20);not null;default:'all'" json:"target_audience"`
	CreatedBy      uuid.UUID  `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	UpdatedBy      *uuid.UUID `gorm:"column:updated_by;type:uuid" json:"updated_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ValidAudience reports whether s is a known target audience.
func ValidAudience(s string) bool {
	return s == AudienceAll || s == AudienceCoreTeam || s == AudienceMembers
}
