package teams

import (
	"context"
	"testing"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTeamTest(t *testing.T) (*Service, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Event{}, &models.Profile{}, &models.Team{}, &models.TeamMember{}, &models.EventAuditLog{},
	))
	event := &models.Event{
		Title: "CTF", Mode: models.ModeEvent, Type: models.TypeTeam,
		Status: models.StatusRegistrationOpen, TeamSize: 4,
	}
	require.NoError(t, db.Create(event).Error)
	return &Service{DB: db}, db, event.ID
}

func TestCreate_LeaderBecomesMember(t *testing.T) {
	s, db, eventID := setupTeamTest(t)
	ctx := context.Background()
	leader := uuid.New()

	team, err := s.Create(ctx, leader, eventID, "  Null Pointers  ")
	require.NoError(t, err)
	assert.Equal(t, "Null Pointers", team.Name)
	assert.Equal(t, leader, team.LeaderID)

	var count int64
	require.NoError(t, db.Model(&models.TeamMember{}).
		Where("team_id = ? AND member_id = ?", team.ID, leader).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreate_OneTeamPerUserPerEvent(t *testing.T) {
	s, _, eventID := setupTeamTest(t)
	ctx := context.Background()
	leader := uuid.New()

	_, err := s.Create(ctx, leader, eventID, "First")
	require.NoError(t, err)

	_, err = s.Create(ctx, leader, eventID, "Second")
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestCreate_IndividualEventRejected(t *testing.T) {
	s, db, _ := setupTeamTest(t)
	ctx := context.Background()
	solo := &models.Event{Title: "Solo Run", Mode: models.ModeEvent, Type: models.TypeIndividual, Status: models.StatusRegistrationOpen}
	require.NoError(t, db.Create(solo).Error)

	_, err := s.Create(ctx, uuid.New(), solo.ID, "Lone Wolves")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestCreate_ClosedEventRejected(t *testing.T) {
	s, db, eventID := setupTeamTest(t)
	ctx := context.Background()
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", eventID).
		Update("status", models.StatusCancelled).Error)

	_, err := s.Create(ctx, uuid.New(), eventID, "Too Late")
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestLeaderboard_Ordering(t *testing.T) {
	s, db, eventID := setupTeamTest(t)
	ctx := context.Background()

	for i, pts := range []int{10, 30, 20} {
		team := &models.Team{Name: "T", LeaderID: uuid.New(), EventID: eventID, Points: pts}
		_ = i
		require.NoError(t, db.Create(team).Error)
	}

	board, err := s.Leaderboard(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, 30, board[0].Points)
	assert.Equal(t, 20, board[1].Points)
	assert.Equal(t, 10, board[2].Points)

	all, err := s.Leaderboard(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAdjustPoints_DeltaAndAudit(t *testing.T) {
	s, db, eventID := setupTeamTest(t)
	ctx := context.Background()
	actor := uuid.New()

	team, err := s.Create(ctx, uuid.New(), eventID, "Scorers")
	require.NoError(t, err)

	updated, err := s.AdjustPoints(ctx, team.ID, actor, 15, "first place in round 1")
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Points)

	updated, err = s.AdjustPoints(ctx, team.ID, actor, -5, "penalty")
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Points)

	var logs []models.EventAuditLog
	require.NoError(t, db.Where("event_id = ? AND action = ?", eventID, models.AuditPointsAdjusted).Find(&logs).Error)
	assert.Len(t, logs, 2)
}

func TestAdjustPoints_ZeroDelta(t *testing.T) {
	s, _, eventID := setupTeamTest(t)
	ctx := context.Background()
	team, err := s.Create(ctx, uuid.New(), eventID, "Static")
	require.NoError(t, err)

	_, err = s.AdjustPoints(ctx, team.ID, uuid.New(), 0, "noop")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestGet_ResolvesMembers(t *testing.T) {
	s, db, eventID := setupTeamTest(t)
	ctx := context.Background()

	leader := &models.Profile{FullName: "Lea Der", Email: "lea@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(leader).Error)

	team, err := s.Create(ctx, leader.ID, eventID, "Resolved")
	require.NoError(t, err)

	view, err := s.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, view.Members, 1)
	assert.Equal(t, "Lea Der", view.Members[0].FullName)
	assert.True(t, view.Members[0].IsLeader)
}
