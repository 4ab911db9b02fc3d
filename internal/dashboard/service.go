package dashboard

import (
	"context"
	"sync"
	"time"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

// MemberSummary is the per-member home screen aggregate.
type MemberSummary struct {
	MyRegistrations     int64 `json:"my_registrations"`
	MyTeams             int64 `json:"my_teams"`
	UpcomingEvents      int64 `json:"upcoming_events"`
	PendingInvitations  int64 `json:"pending_invitations"`
	UnseenAnnouncements int64 `json:"unseen_announcements"`
}

// AdminSummary is the core-team overview aggregate.
type AdminSummary struct {
	TotalMembers       int64 `json:"total_members"`
	PendingUsers       int64 `json:"pending_users"`
	UpcomingEvents     int64 `json:"upcoming_events"`
	OngoingEvents      int64 `json:"ongoing_events"`
	CompletedEvents    int64 `json:"completed_events"`
	TotalRegistrations int64 `json:"total_registrations"`
	TotalTeams         int64 `json:"total_teams"`
	Announcements      int64 `json:"announcements"`
}

// runCounts executes each count query in its own goroutine. A failed query
// logs and leaves its destination at zero; the summary always renders.
func runCounts(queries map[*int64]func() (int64, error)) {
	var wg sync.WaitGroup
	for dst, fn := range queries {
		wg.Add(1)
		go func(dst *int64, fn func() (int64, error)) {
			defer wg.Done()
			n, err := fn()
			if err != nil {
				log.Warn().Err(err).Msg("dashboard count failed, defaulting to zero")
				return
			}
			*dst = n
		}(dst, fn)
	}
	wg.Wait()
}

func (s *Service) count(ctx context.Context, model interface{}, conds ...interface{}) func() (int64, error) {
	return func() (int64, error) {
		var n int64
		q := s.DB.WithContext(ctx).Model(model)
		if len(conds) > 0 {
			q = q.Where(conds[0], conds[1:]...)
		}
		err := q.Count(&n).Error
		return n, err
	}
}

func (s *Service) MemberSummary(ctx context.Context, userID uuid.UUID, role string) (*MemberSummary, error) {
	key := cache.MemberSummaryKey(userID.String())
	var cached MemberSummary
	if s.Cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	now := time.Now()
	out := &MemberSummary{}
	runCounts(map[*int64]func() (int64, error){
		&out.MyRegistrations: s.count(ctx, &models.EventParticipant{}, "user_id = ?", userID),
		&out.MyTeams:         s.count(ctx, &models.TeamMember{}, "member_id = ?", userID),
		&out.UpcomingEvents: s.count(ctx, &models.Event{},
			"status IN ?", []string{models.StatusUpcoming, models.StatusRegistrationOpen}),
		&out.PendingInvitations: s.count(ctx, &models.TeamInvitation{},
			"invitee_id = ? AND status = ? AND expires_at > ?", userID, models.InvitationPending, now),
		&out.UnseenAnnouncements: s.unseenAnnouncements(ctx, userID, role),
	})

	s.Cache.Set(ctx, key, out)
	return out, nil
}

func (s *Service) unseenAnnouncements(ctx context.Context, userID uuid.UUID, role string) func() (int64, error) {
	return func() (int64, error) {
		var profile models.Profile
		if err := s.DB.WithContext(ctx).Select("last_seen_announcement_at").
			Where("id = ?", userID).First(&profile).Error; err != nil {
			return 0, err
		}
		audiences := []string{models.AudienceAll, models.AudienceMembers}
		if role == constants.Core {
			audiences = []string{models.AudienceAll, models.AudienceCoreTeam}
		}
		q := s.DB.WithContext(ctx).Model(&models.Announcement{}).
			Where("target_audience IN ?", audiences)
		if profile.LastSeenAnnouncementAt != nil {
			q = q.Where("created_at > ?", *profile.LastSeenAnnouncementAt)
		}
		var n int64
		err := q.Count(&n).Error
		return n, err
	}
}

func (s *Service) AdminSummary(ctx context.Context) (*AdminSummary, error) {
	var cached AdminSummary
	if s.Cache.Get(ctx, cache.KeyAdminSummary, &cached) {
		return &cached, nil
	}

	out := &AdminSummary{}
	runCounts(map[*int64]func() (int64, error){
		&out.TotalMembers: s.count(ctx, &models.Profile{}),
		&out.PendingUsers: s.count(ctx, &models.PendingUser{}),
		&out.UpcomingEvents: s.count(ctx, &models.Event{},
			"status IN ?", []string{models.StatusUpcoming, models.StatusRegistrationOpen}),
		&out.OngoingEvents:      s.count(ctx, &models.Event{}, "status = ?", models.StatusOngoing),
		&out.CompletedEvents:    s.count(ctx, &models.Event{}, "status = ?", models.StatusCompleted),
		&out.TotalRegistrations: s.count(ctx, &models.EventParticipant{}),
		&out.TotalTeams:         s.count(ctx, &models.Team{}),
		&out.Announcements:      s.count(ctx, &models.Announcement{}),
	})

	s.Cache.Set(ctx, cache.KeyAdminSummary, out)
	return out, nil
}
