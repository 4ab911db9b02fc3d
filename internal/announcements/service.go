package announcements

import (
	"context"
	"strings"
	"time"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

// CreateInput for a new announcement.
type CreateInput struct {
	Title          string `json:"title"`
	Content        string `json:"content"`
	IsImportant    bool   `json:"is_important"`
	TargetAudience string `json:"target_audience"`
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, in CreateInput) (*models.Announcement, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.E(apperr.Validation, "Title and content are required")
	}
	audience := in.TargetAudience
	if audience == "" {
		audience = models.AudienceAll
	}
	if !models.ValidAudience(audience) {
		return nil, apperr.E(apperr.Validation, "Unknown target audience")
	}

	ann := &models.Announcement{
		Title:          strings.TrimSpace(in.Title),
		Content:        in.Content,
		IsImportant:    in.IsImportant,
		TargetAudience: audience,
		CreatedBy:      actorID,
	}
	if err := s.DB.WithContext(ctx).Create(ann).Error; err != nil {
		return nil, err
	}
	s.Cache.InvalidateAdminSummary(ctx)
	return ann, nil
}

// Update mutates title/content/importance/audience and stamps updated_by.
func (s *Service) Update(ctx context.Context, id, actorID uuid.UUID, in CreateInput) (*models.Announcement, error) {
	var ann models.Announcement
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&ann).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Announcement not found")
		}
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, apperr.E(apperr.Validation, "Title and content are required")
	}
	if in.TargetAudience != "" && !models.ValidAudience(in.TargetAudience) {
		return nil, apperr.E(apperr.Validation, "Unknown target audience")
	}

	ann.Title = strings.TrimSpace(in.Title)
	ann.Content = in.Content
	ann.IsImportant = in.IsImportant
	if in.TargetAudience != "" {
		ann.TargetAudience = in.TargetAudience
	}
	ann.UpdatedBy = &actorID
	if err := s.DB.WithContext(ctx).Save(&ann).Error; err != nil {
		return nil, err
	}
	s.Cache.InvalidateAdminSummary(ctx)
	return &ann, nil
}

// audiencesFor maps a role to the audiences it may read. All variants are
// stored identically; this filter applies only at read time.
func audiencesFor(role string) []string {
	if role == constants.Core {
		return []string{models.AudienceAll, models.AudienceCoreTeam}
	}
	return []string{models.AudienceAll, models.AudienceMembers}
}

// List returns announcements visible to the role, important first, then
// newest first.
func (s *Service) List(ctx context.Context, role string) ([]models.Announcement, error) {
	var rows []models.Announcement
	if err := s.DB.WithContext(ctx).
		Where("target_audience IN ?", audiencesFor(role)).
		Order("is_important DESC, created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkSeen stamps the caller's last_seen_announcement_at.
func (s *Service) MarkSeen(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	res := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", userID).
		Update("last_seen_announcement_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "Profile not found")
	}
	return nil
}

// UnseenCount counts visible announcements newer than the caller's last
// seen stamp.
func (s *Service) UnseenCount(ctx context.Context, userID uuid.UUID, role string) (int64, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apperr.E(apperr.NotFound, "Profile not found")
		}
		return 0, err
	}
	q := s.DB.WithContext(ctx).Model(&models.Announcement{}).
		Where("target_audience IN ?", audiencesFor(role))
	if profile.LastSeenAnnouncementAt != nil {
		q = q.Where("created_at > ?", *profile.LastSeenAnnouncementAt)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
