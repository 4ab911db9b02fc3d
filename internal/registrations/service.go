package registrations

import (
	"context"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

// Register signs userID up for an event or workshop. Preconditions are
// checked in a fixed order so the first violated one names the failure:
// event exists with the expected mode, no duplicate row, capacity left,
// deadline not passed, event not completed. The pre-checks produce the
// error; the actual capacity guard is the conditional insert below, so two
// racing registrations can never over-book.
func (s *Service) Register(ctx context.Context, eventID, userID uuid.UUID, expectedMode string) (*models.EventParticipant, error) {
	event, err := s.findEvent(ctx, eventID, expectedMode)
	if err != nil {
		return nil, err
	}
	label := modeLabel(event.Mode)

	var existing models.EventParticipant
	err = s.DB.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&existing).Error
	if err == nil {
		return nil, apperr.E(apperr.Conflict, "Already registered for this "+label)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if event.MaxParticipants > 0 {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.EventParticipant{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(event.MaxParticipants) {
			return nil, apperr.E(apperr.Conflict, titleCase(label)+" is full")
		}
	}

	now := time.Now()
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return nil, apperr.E(apperr.DeadlinePassed, "Registration deadline has passed")
	}
	if event.Status == models.StatusCompleted {
		return nil, apperr.E(apperr.InvalidState, "Registration is closed for a completed "+label)
	}

	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Profile not found")
		}
		return nil, err
	}

	// Name/email snapshot survives later profile edits.
	participant := &models.EventParticipant{
		ID:           uuid.New(),
		EventID:      eventID,
		UserID:       userID,
		FullName:     profile.FullName,
		Email:        profile.Email,
		Status:       models.ParticipantRegistered,
		RegisteredAt: now,
	}

	if event.MaxParticipants > 0 {
		// Single conditional write guarded by a live row count: the insert
		// commits only while the count is under the cap. The unique
		// (event_id, user_id) index catches a racing duplicate.
		res := s.DB.WithContext(ctx).Exec(
			`INSERT INTO event_participants (id, event_id, user_id, full_name, email, status, attended, registered_at)
			 SELECT ?, ?, ?, ?, ?, ?, ?, ?
			 WHERE (SELECT COUNT(*) FROM event_participants WHERE event_id = ?) < ?`,
			participant.ID, eventID, userID, participant.FullName, participant.Email,
			participant.Status, false, now, eventID, event.MaxParticipants,
		)
		if res.Error != nil {
			return nil, apperr.E(apperr.Conflict, "Already registered for this "+label)
		}
		if res.RowsAffected == 0 {
			return nil, apperr.E(apperr.Conflict, titleCase(label)+" is full")
		}
	} else {
		if err := s.DB.WithContext(ctx).Create(participant).Error; err != nil {
			return nil, apperr.E(apperr.Conflict, "Already registered for this "+label)
		}
	}

	s.Cache.InvalidateAdminSummary(ctx)
	log.Info().Str("event_id", eventID.String()).Str("user_id", userID.String()).Msg("registration created")
	return participant, nil
}

// Cancel removes a registration. Permitted only while a row exists, the
// deadline has not passed and the event is not completed. Hard delete; a
// second cancel fails with NotFound.
func (s *Service) Cancel(ctx context.Context, eventID, userID uuid.UUID, expectedMode string) error {
	event, err := s.findEvent(ctx, eventID, expectedMode)
	if err != nil {
		return err
	}
	label := modeLabel(event.Mode)

	var participant models.EventParticipant
	if err := s.DB.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&participant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.E(apperr.NotFound, "No registration found for this "+label)
		}
		return err
	}

	now := time.Now()
	if event.RegistrationDeadline != nil && now.After(*event.RegistrationDeadline) {
		return apperr.E(apperr.DeadlinePassed, "Registration deadline has passed")
	}
	if event.Status == models.StatusCompleted {
		return apperr.E(apperr.InvalidState, "Cannot cancel a registration for a completed "+label)
	}

	if err := s.DB.WithContext(ctx).Delete(&models.EventParticipant{}, "id = ?", participant.ID).Error; err != nil {
		return err
	}
	s.Cache.InvalidateAdminSummary(ctx)
	return nil
}

// ListForUser returns the caller's registrations, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.EventParticipant, error) {
	var rows []models.EventParticipant
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("registered_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Roster returns the participants of one event in descending
// registration-time order (export order).
func (s *Service) Roster(ctx context.Context, eventID uuid.UUID) (*models.Event, []models.EventParticipant, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperr.E(apperr.NotFound, "Event not found")
		}
		return nil, nil, err
	}
	var rows []models.EventParticipant
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at DESC").Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	return &event, rows, nil
}

func (s *Service) findEvent(ctx context.Context, eventID uuid.UUID, expectedMode string) (*models.Event, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, titleCase(modeLabel(expectedMode))+" not found")
		}
		return nil, err
	}
	if expectedMode != "" && event.Mode != expectedMode {
		return nil, apperr.E(apperr.NotFound, titleCase(modeLabel(expectedMode))+" not found")
	}
	return &event, nil
}

func modeLabel(mode string) string {
	if mode == models.ModeWorkshop {
		return "workshop"
	}
	return "event"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
