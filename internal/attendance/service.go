package attendance

import (
	"context"
	"encoding/json"
	"math"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

// Sheet is the attendance view for one event: the event itself plus its
// roster in registration order.
type Sheet struct {
	Workshop     models.Event              `json:"workshop"`
	Participants []models.EventParticipant `json:"participants"`
}

// GetSheet loads the roster for the event.
func (s *Service) GetSheet(ctx context.Context, eventID uuid.UUID) (*Sheet, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Event not found")
		}
		return nil, err
	}
	var participants []models.EventParticipant
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("registered_at ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	return &Sheet{Workshop: event, Participants: participants}, nil
}

// Entry is one attendance flag in a batch update.
type Entry struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Attended      bool      `json:"attended"`
}

// UpdateResult summarizes the roster after a batch update.
type UpdateResult struct {
	Total    int     `json:"total"`
	Attended int     `json:"attended"`
	Rate     float64 `json:"rate"`
}

// Update applies a batch of attendance flags all-or-nothing: the whole
// batch and the audit row commit in one transaction, so a failed entry
// rolls everything back. Status derives from the flag (confirmed when
// attended, registered otherwise).
func (s *Service) Update(ctx context.Context, eventID, actorID uuid.UUID, entries []Entry) (*UpdateResult, error) {
	if len(entries) == 0 {
		return nil, apperr.E(apperr.Validation, "No attendance entries provided")
	}

	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Event not found")
		}
		return nil, err
	}

	result := &UpdateResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			status := models.ParticipantRegistered
			if e.Attended {
				status = models.ParticipantConfirmed
			}
			res := tx.Model(&models.EventParticipant{}).
				Where("id = ? AND event_id = ?", e.ParticipantID, eventID).
				Updates(map[string]interface{}{"attended": e.Attended, "status": status})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.E(apperr.NotFound, "Participant not found for this event")
			}
		}

		// Cross-row aggregate over the whole roster for the audit record.
		var total, attended int64
		if err := tx.Model(&models.EventParticipant{}).Where("event_id = ?", eventID).Count(&total).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.EventParticipant{}).Where("event_id = ? AND attended = ?", eventID, true).Count(&attended).Error; err != nil {
			return err
		}
		rate := 0.0
		if total > 0 {
			rate = math.Round(float64(attended)/float64(total)*1000) / 10
		}
		result.Total = int(total)
		result.Attended = int(attended)
		result.Rate = rate

		meta, err := json.Marshal(map[string]interface{}{
			"total":    total,
			"attended": attended,
			"rate":     rate,
			"updated":  len(entries),
		})
		if err != nil {
			return err
		}
		return tx.Create(&models.EventAuditLog{
			EventID:  eventID,
			ActorID:  actorID,
			Action:   models.AuditAttendanceUpdated,
			Metadata: datatypes.JSON(meta),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Cache.InvalidateAdminSummary(ctx)
	log.Info().Str("event_id", eventID.String()).Int("entries", len(entries)).Msg("attendance updated")
	return result, nil
}

// AuditTrail lists the append-only audit records for one event.
func (s *Service) AuditTrail(ctx context.Context, eventID uuid.UUID) ([]models.EventAuditLog, error) {
	var logs []models.EventAuditLog
	if err := s.DB.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
