package invitations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/emails"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/notifications"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// First invites get a 7 day window; reinvites get 24h. The asymmetry is
// deliberate: a reinvite follows an expired or declined invite, so the
// fresh window is short.
const (
	firstInviteExpiry = 7 * 24 * time.Hour
	reinviteExpiry    = 24 * time.Hour
)

// ErrNotAuthorized is the generic authorization failure: callers that are
// not the team leader (or not the invitee) get this, never a hint about
// which check failed.
var ErrNotAuthorized = apperr.E(apperr.Forbidden, "Not authorized")

type Service struct {
	DB            *gorm.DB
	Notifications *notifications.Service
	Emails        emails.Sender
}

// Send creates a fresh pending invitation from the team leader to a member.
// The target must be eligible: not registered for the event in any form,
// not already on the team, no live pending invite, not the caller, not core.
func (s *Service) Send(ctx context.Context, teamID, inviteeID, eventID, actorID uuid.UUID) (*models.TeamInvitation, error) {
	team, err := s.authorizeLeader(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if team.EventID != eventID {
		return nil, apperr.E(apperr.Validation, "Event does not match the team's event")
	}
	if err := s.checkEligible(ctx, team, inviteeID, actorID); err != nil {
		return nil, err
	}

	var existing []models.TeamInvitation
	if err := s.DB.WithContext(ctx).Where("team_id = ? AND invitee_id = ?", teamID, inviteeID).Find(&existing).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	for _, inv := range existing {
		if inv.Live(now) {
			return nil, apperr.E(apperr.Conflict, "An invitation is already pending for this member")
		}
	}

	inv := &models.TeamInvitation{
		TeamID:      teamID,
		InviterID:   actorID,
		InviteeID:   inviteeID,
		EventID:     eventID,
		Status:      models.InvitationPending,
		InviteToken: randomHex(32),
		ExpiresAt:   now.Add(firstInviteExpiry),
	}
	if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}

	s.notifyInvitee(ctx, inv, team, models.NotifInvitationReceived,
		"You have been invited to join team "+team.Name)
	return inv, nil
}

// Cancel moves a pending invitation to cancelled. Inviter (leader) only;
// the persisted status must still be pending.
func (s *Service) Cancel(ctx context.Context, invitationID, actorID uuid.UUID) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := s.DB.WithContext(ctx).Where("id = ?", invitationID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Invitation not found")
		}
		return nil, err
	}
	team, err := s.authorizeLeader(ctx, inv.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationPending {
		return nil, apperr.E(apperr.InvalidState, "Invitation is no longer pending")
	}

	inv.Status = models.InvitationCancelled
	if err := s.DB.WithContext(ctx).Save(&inv).Error; err != nil {
		return nil, err
	}
	s.notifyInvitee(ctx, &inv, team, models.NotifInvitationCancelled,
		"Your invitation to team "+team.Name+" was withdrawn")
	return &inv, nil
}

// Reinvite is not a transition on the old row: it deletes every row for
// (team, invitee) and inserts a fresh pending one with a new token and the
// short 24h window.
func (s *Service) Reinvite(ctx context.Context, teamID, inviteeID, actorID uuid.UUID) (*models.TeamInvitation, error) {
	team, err := s.authorizeLeader(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.checkEligible(ctx, team, inviteeID, actorID); err != nil {
		return nil, err
	}

	inv := &models.TeamInvitation{
		TeamID:      teamID,
		InviterID:   actorID,
		InviteeID:   inviteeID,
		EventID:     team.EventID,
		Status:      models.InvitationPending,
		InviteToken: randomHex(32),
		ExpiresAt:   time.Now().Add(reinviteExpiry),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ? AND invitee_id = ?", teamID, inviteeID).Delete(&models.TeamInvitation{}).Error; err != nil {
			return err
		}
		return tx.Create(inv).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyInvitee(ctx, inv, team, models.NotifInvitationReceived,
		"You have been re-invited to join team "+team.Name)
	return inv, nil
}

// Respond lets the invitee accept or decline a pending, unexpired
// invitation. Accepting joins the team (capacity-checked) in the same
// transaction that flips the status.
func (s *Service) Respond(ctx context.Context, invitationID, actorID uuid.UUID, accept bool) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := s.DB.WithContext(ctx).Where("id = ?", invitationID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Invitation not found")
		}
		return nil, err
	}
	if inv.InviteeID != actorID {
		return nil, ErrNotAuthorized
	}
	if inv.Status != models.InvitationPending {
		return nil, apperr.E(apperr.InvalidState, "Invitation is no longer pending")
	}
	now := time.Now()
	if now.After(inv.ExpiresAt) {
		return nil, apperr.E(apperr.DeadlinePassed, "Invitation has expired")
	}

	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", inv.TeamID).First(&team).Error; err != nil {
		return nil, err
	}

	newStatus := models.InvitationDeclined
	if accept {
		newStatus = models.InvitationAccepted
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if accept {
			var event models.Event
			if err := tx.Where("id = ?", inv.EventID).First(&event).Error; err != nil {
				return err
			}
			if event.TeamSize > 0 {
				var count int64
				if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", inv.TeamID).Count(&count).Error; err != nil {
					return err
				}
				if count >= int64(event.TeamSize) {
					return apperr.E(apperr.Conflict, "Team is full")
				}
			}
			if err := tx.Create(&models.TeamMember{
				TeamID:   inv.TeamID,
				MemberID: actorID,
				JoinedAt: now,
			}).Error; err != nil {
				return err
			}
		}
		inv.Status = newStatus
		inv.RespondedAt = &now
		return tx.Save(&inv).Error
	})
	if err != nil {
		return nil, err
	}

	verb := "declined"
	if accept {
		verb = "accepted"
	}
	s.Notifications.Notify(ctx, notifications.NotifyInput{
		RecipientID: inv.InviterID,
		Kind:        models.NotifInvitationResponded,
		Message:     "Your invitation to team " + team.Name + " was " + verb,
		TeamID:      &inv.TeamID,
		EventID:     &inv.EventID,
	})
	return &inv, nil
}

// StatusRow is one invitation with its derived read-time status.
type StatusRow struct {
	models.TeamInvitation
	EffectiveStatus string `json:"effective_status"`
}

// TeamStatus lists a team's invitations, leader-only. A pending row past
// its expiry reads as expired without being rewritten.
func (s *Service) TeamStatus(ctx context.Context, teamID, actorID uuid.UUID) ([]StatusRow, error) {
	if _, err := s.authorizeLeader(ctx, teamID, actorID); err != nil {
		return nil, err
	}
	var invs []models.TeamInvitation
	if err := s.DB.WithContext(ctx).Where("team_id = ?", teamID).Order("created_at DESC").Find(&invs).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	rows := make([]StatusRow, 0, len(invs))
	for _, inv := range invs {
		rows = append(rows, StatusRow{TeamInvitation: inv, EffectiveStatus: inv.EffectiveStatus(now)})
	}
	return rows, nil
}

// Candidate is an invitable member.
type Candidate struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// AvailableMembers lists profiles the leader may invite. Excluded: anyone
// registered for the event (individually or via any team), current team
// members, users with a live pending invite to this team, the caller, and
// core-team profiles.
func (s *Service) AvailableMembers(ctx context.Context, teamID, actorID uuid.UUID) ([]Candidate, error) {
	team, err := s.authorizeLeader(ctx, teamID, actorID)
	if err != nil {
		return nil, err
	}

	excluded := map[uuid.UUID]bool{actorID: true}

	registered, err := s.registeredUserIDs(ctx, team.EventID)
	if err != nil {
		return nil, err
	}
	for _, id := range registered {
		excluded[id] = true
	}

	var members []models.TeamMember
	if err := s.DB.WithContext(ctx).Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		excluded[m.MemberID] = true
	}

	var invs []models.TeamInvitation
	if err := s.DB.WithContext(ctx).Where("team_id = ? AND status = ?", teamID, models.InvitationPending).Find(&invs).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	for _, inv := range invs {
		if inv.Live(now) {
			excluded[inv.InviteeID] = true
		}
	}

	var profiles []models.Profile
	if err := s.DB.WithContext(ctx).Where("role <> ?", constants.Core).Order("full_name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	candidates := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		if excluded[p.ID] {
			continue
		}
		candidates = append(candidates, Candidate{ID: p.ID, FullName: p.FullName, Email: p.Email})
	}
	return candidates, nil
}

// registeredUserIDs flattens everyone registered for an event: individual
// participant rows plus members of every team on the event.
func (s *Service) registeredUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ?", eventID).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	var teamMemberIDs []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.event_id = ?", eventID).
		Pluck("team_members.member_id", &teamMemberIDs).Error; err != nil {
		return nil, err
	}
	return append(ids, teamMemberIDs...), nil
}

func (s *Service) authorizeLeader(ctx context.Context, teamID, actorID uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Team not found")
		}
		return nil, err
	}
	if team.LeaderID != actorID {
		return nil, ErrNotAuthorized
	}
	return &team, nil
}

// checkEligible enforces the shared send/reinvite target rules (the live
// pending-invite rule is handled by the callers).
func (s *Service) checkEligible(ctx context.Context, team *models.Team, inviteeID, actorID uuid.UUID) error {
	if inviteeID == actorID {
		return apperr.E(apperr.Validation, "Cannot invite yourself")
	}
	var invitee models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", inviteeID).First(&invitee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.E(apperr.NotFound, "Member not found")
		}
		return err
	}
	if invitee.Role == constants.Core {
		return apperr.E(apperr.Validation, "Core team members cannot be invited")
	}

	var memberCount int64
	if err := s.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND member_id = ?", team.ID, inviteeID).Count(&memberCount).Error; err != nil {
		return err
	}
	if memberCount > 0 {
		return apperr.E(apperr.Conflict, "Member is already on the team")
	}

	registered, err := s.registeredUserIDs(ctx, team.EventID)
	if err != nil {
		return err
	}
	for _, id := range registered {
		if id == inviteeID {
			return apperr.E(apperr.Conflict, "Member is already registered for this event")
		}
	}
	return nil
}

func (s *Service) notifyInvitee(ctx context.Context, inv *models.TeamInvitation, team *models.Team, kind, message string) {
	s.Notifications.Notify(ctx, notifications.NotifyInput{
		RecipientID: inv.InviteeID,
		Kind:        kind,
		Message:     message,
		TeamID:      &inv.TeamID,
		EventID:     &inv.EventID,
	})
	if s.Emails == nil || kind != models.NotifInvitationReceived {
		return
	}
	var invitee models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", inv.InviteeID).First(&invitee).Error; err != nil {
		return
	}
	var event models.Event
	title := ""
	if err := s.DB.WithContext(ctx).Where("id = ?", inv.EventID).First(&event).Error; err == nil {
		title = event.Title
	}
	if err := s.Emails.SendInviteNotice(ctx, invitee.Email, team.Name, title); err != nil {
		log.Warn().Str("invitation_id", inv.ID.String()).Err(err).Msg("invite email failed")
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
