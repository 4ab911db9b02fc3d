package teams

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// TeamView is a team with its resolved member profiles.
type TeamView struct {
	Team    models.Team  `json:"team"`
	Members []MemberView `json:"members"`
}

type MemberView struct {
	MemberID uuid.UUID `json:"member_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	IsLeader bool      `json:"is_leader"`
	JoinedAt time.Time `json:"joined_at"`
}

// Create makes a team for a team-type event; the creator becomes leader and
// first member. One team per user per event.
func (s *Service) Create(ctx context.Context, leaderID, eventID uuid.UUID, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.E(apperr.Validation, "Team name is required")
	}

	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Event not found")
		}
		return nil, err
	}
	if event.Type != models.TypeTeam {
		return nil, apperr.E(apperr.InvalidState, "Event does not take team registrations")
	}
	if event.Status == models.StatusCompleted || event.Status == models.StatusCancelled {
		return nil, apperr.E(apperr.InvalidState, "Event is "+event.Status)
	}

	inTeam, err := s.userInTeamForEvent(ctx, leaderID, eventID)
	if err != nil {
		return nil, err
	}
	if inTeam {
		return nil, apperr.E(apperr.Conflict, "Already in a team for this event")
	}

	team := &models.Team{Name: name, LeaderID: leaderID, EventID: eventID}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		return tx.Create(&models.TeamMember{
			TeamID:   team.ID,
			MemberID: leaderID,
			JoinedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Get returns the team with its members.
func (s *Service) Get(ctx context.Context, teamID uuid.UUID) (*TeamView, error) {
	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Team not found")
		}
		return nil, err
	}

	var memberships []models.TeamMember
	if err := s.DB.WithContext(ctx).Where("team_id = ?", teamID).Order("joined_at ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}

	view := &TeamView{Team: team}
	for _, m := range memberships {
		var profile models.Profile
		mv := MemberView{MemberID: m.MemberID, IsLeader: m.MemberID == team.LeaderID, JoinedAt: m.JoinedAt}
		if err := s.DB.WithContext(ctx).Where("id = ?", m.MemberID).First(&profile).Error; err == nil {
			mv.FullName = profile.FullName
			mv.Email = profile.Email
		}
		view.Members = append(view.Members, mv)
	}
	return view, nil
}

// ListByEvent returns teams registered for an event.
func (s *Service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Leaderboard returns teams by points, highest first. eventID narrows to
// one event; uuid.Nil ranks across all of them.
func (s *Service) Leaderboard(ctx context.Context, eventID uuid.UUID) ([]models.Team, error) {
	q := s.DB.WithContext(ctx).Model(&models.Team{})
	if eventID != uuid.Nil {
		q = q.Where("event_id = ?", eventID)
	}
	var teams []models.Team
	if err := q.Order("points DESC, created_at ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// AdjustPoints applies a point delta with an audit record, both in one
// transaction.
func (s *Service) AdjustPoints(ctx context.Context, teamID, actorID uuid.UUID, delta int, reason string) (*models.Team, error) {
	if delta == 0 {
		return nil, apperr.E(apperr.Validation, "Point delta cannot be zero")
	}
	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Team not found")
		}
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Team{}).Where("id = ?", teamID).
			Update("points", gorm.Expr("points + ?", delta)).Error; err != nil {
			return err
		}
		meta, err := json.Marshal(map[string]interface{}{
			"team_id": teamID,
			"delta":   delta,
			"reason":  reason,
		})
		if err != nil {
			return err
		}
		return tx.Create(&models.EventAuditLog{
			EventID:  team.EventID,
			ActorID:  actorID,
			Action:   models.AuditPointsAdjusted,
			Metadata: datatypes.JSON(meta),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	team.Points += delta
	return &team, nil
}

func (s *Service) userInTeamForEvent(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.member_id = ? AND teams.event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}
