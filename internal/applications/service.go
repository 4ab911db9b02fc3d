package applications

import (
	"context"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/notifications"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotAuthorized mirrors the invitation side: ownership failures are
// indistinguishable from role failures.
var ErrNotAuthorized = apperr.E(apperr.Forbidden, "Not authorized")

type Service struct {
	DB            *gorm.DB
	Notifications *notifications.Service
}

// Apply files a pending application from a member to a team. One pending
// application per (user, team); not available to current members or anyone
// already registered for the team's event.
func (s *Service) Apply(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamApplication, error) {
	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Team not found")
		}
		return nil, err
	}

	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", team.EventID).First(&event).Error; err != nil {
		return nil, err
	}
	if event.Status == models.StatusCompleted || event.Status == models.StatusCancelled {
		return nil, apperr.E(apperr.InvalidState, "Event is "+event.Status)
	}

	var memberCount int64
	if err := s.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Where("team_id = ? AND member_id = ?", teamID, userID).Count(&memberCount).Error; err != nil {
		return nil, err
	}
	if memberCount > 0 {
		return nil, apperr.E(apperr.Conflict, "Already a member of this team")
	}

	registered, err := s.registeredForEvent(ctx, team.EventID, userID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperr.E(apperr.Conflict, "Already registered for this event")
	}

	var pendingCount int64
	if err := s.DB.WithContext(ctx).Model(&models.TeamApplication{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, models.ApplicationPending).
		Count(&pendingCount).Error; err != nil {
		return nil, err
	}
	if pendingCount > 0 {
		return nil, apperr.E(apperr.Conflict, "An application is already pending for this team")
	}

	app := &models.TeamApplication{
		UserID:  userID,
		TeamID:  teamID,
		EventID: team.EventID,
		Status:  models.ApplicationPending,
	}
	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}

	s.Notifications.Notify(ctx, notifications.NotifyInput{
		RecipientID: team.LeaderID,
		Kind:        models.NotifApplicationReceived,
		Message:     "New application to join team " + team.Name,
		TeamID:      &team.ID,
		EventID:     &team.EventID,
	})
	return app, nil
}

// Withdraw removes the caller's own application. Only while pending; hard
// delete, so a second withdraw fails with NotFound.
func (s *Service) Withdraw(ctx context.Context, applicationID, actorID uuid.UUID) error {
	var app models.TeamApplication
	if err := s.DB.WithContext(ctx).Where("id = ?", applicationID).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.E(apperr.NotFound, "Application not found")
		}
		return err
	}
	if app.UserID != actorID {
		return ErrNotAuthorized
	}
	if app.Status != models.ApplicationPending {
		return apperr.E(apperr.InvalidState, "Only pending applications can be withdrawn")
	}
	return s.DB.WithContext(ctx).Delete(&models.TeamApplication{}, "id = ?", applicationID).Error
}

// Respond lets the team leader accept or reject a pending application.
// Accepting joins the team (capacity-checked) with the status flip in one
// transaction.
func (s *Service) Respond(ctx context.Context, applicationID, actorID uuid.UUID, accept bool) (*models.TeamApplication, error) {
	var app models.TeamApplication
	if err := s.DB.WithContext(ctx).Where("id = ?", applicationID).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Application not found")
		}
		return nil, err
	}
	var team models.Team
	if err := s.DB.WithContext(ctx).Where("id = ?", app.TeamID).First(&team).Error; err != nil {
		return nil, err
	}
	if team.LeaderID != actorID {
		return nil, ErrNotAuthorized
	}
	if app.Status != models.ApplicationPending {
		return nil, apperr.E(apperr.InvalidState, "Application is no longer pending")
	}

	newStatus := models.ApplicationRejected
	if accept {
		newStatus = models.ApplicationAccepted
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if accept {
			var event models.Event
			if err := tx.Where("id = ?", app.EventID).First(&event).Error; err != nil {
				return err
			}
			if event.TeamSize > 0 {
				var count int64
				if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", app.TeamID).Count(&count).Error; err != nil {
					return err
				}
				if count >= int64(event.TeamSize) {
					return apperr.E(apperr.Conflict, "Team is full")
				}
			}
			if err := tx.Create(&models.TeamMember{
				TeamID:   app.TeamID,
				MemberID: app.UserID,
				JoinedAt: time.Now(),
			}).Error; err != nil {
				return err
			}
		}
		app.Status = newStatus
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}

	verb := "rejected"
	if accept {
		verb = "accepted"
	}
	s.Notifications.Notify(ctx, notifications.NotifyInput{
		RecipientID: app.UserID,
		Kind:        models.NotifApplicationDecided,
		Message:     "Your application to team " + team.Name + " was " + verb,
		TeamID:      &team.ID,
		EventID:     &app.EventID,
	})
	return &app, nil
}

// ListForTeam returns a team's applications, leader-only, newest first.
func (s *Service) ListForTeam(ctx context.Context, teamID, actorID uuid.UUID) ([]models.TeamApplication, error) {
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
	var apps []models.TeamApplication
	if err := s.DB.WithContext(ctx).Where("team_id = ?", teamID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListForUser returns the caller's own applications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.TeamApplication, error) {
	var apps []models.TeamApplication
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *Service) registeredForEvent(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.DB.WithContext(ctx).Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("teams.event_id = ? AND team_members.member_id = ?", eventID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
