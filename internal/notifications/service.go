package notifications

import (
	"context"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// NotifyInput carries the structured references; the team/event ids are
// stored on the row so no renderer ever parses the message text.
type NotifyInput struct {
	RecipientID uuid.UUID
	Kind        string
	Message     string
	TeamID      *uuid.UUID
	EventID     *uuid.UUID
}

// Notify stores a notification. Failures are logged and swallowed:
// notifications are best-effort side effects, never a reason to fail the
// operation that produced them.
func (s *Service) Notify(ctx context.Context, in NotifyInput) {
	n := &models.Notification{
		RecipientID: in.RecipientID,
		Kind:        in.Kind,
		Message:     in.Message,
		TeamID:      in.TeamID,
		EventID:     in.EventID,
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		log.Warn().Str("kind", in.Kind).Str("recipient", in.RecipientID.String()).Err(err).Msg("notification write failed")
	}
}

// List returns the recipient's notifications, newest first.
func (s *Service) List(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	var rows []models.Notification
	if err := s.DB.WithContext(ctx).Where("recipient_id = ?", recipientID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead stamps one notification as read; owner-only.
func (s *Service) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("read_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "Notification not found")
	}
	return nil
}
