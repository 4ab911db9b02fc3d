package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses. Expired is never persisted: a pending row past its
// expires_at is reported as expired at read time.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationDeclined  = "declined"
	InvitationCancelled = "cancelled"
	InvitationExpired   = "expired"
)

// TeamInvitation is a leader-initiated, directed invite to join a team.
// At most one live (pending, unexpired) row may exist per (team, invitee).
type TeamInvitation struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TeamID      uuid.UUID  `gorm:"column:team_id;type:uuid;not null;index" json:"team_id"`
	InviterID   uuid.UUID  `gorm:"column:inviter_id;type:uuid;not null" json:"inviter_id"`
	InviteeID   uuid.UUID  `gorm:"column:invitee_id;type:uuid;not null;index" json:"invitee_id"`
	EventID     uuid.UUID  `gorm:"column:event_id;type:uuid;not null" json:"event_id"`
	Status      string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	InviteToken string     `gorm:"column:invite_token;not null;uniqueIndex" json:"-"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (TeamInvitation) TableName() string {
	return "team_invitations"
}

func (i *TeamInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// EffectiveStatus derives the read-time state: a pending row past its
// expiry reads as expired without a write.
func (i *TeamInvitation) EffectiveStatus(now time.Time) string {
	if i.Status == InvitationPending && now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return i.Status
}

// Live reports whether the invitation still blocks a duplicate send.
func (i *TeamInvitation) Live(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}
