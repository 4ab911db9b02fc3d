package registrations

import (
	"context"
	"testing"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRegTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.EventParticipant{}, &models.Profile{}))
	return &Service{DB: db, Cache: &cache.Cache{}}, db
}

func seedProfile(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	p := &models.Profile{FullName: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(p).Error)
	return p.ID
}

func seedWorkshop(t *testing.T, db *gorm.DB, maxParticipants int, deadline time.Time, status string) uuid.UUID {
	e := &models.Event{
		Title:                "Intro to Soldering",
		Mode:                 models.ModeWorkshop,
		Type:                 models.TypeIndividual,
		Status:               status,
		MaxParticipants:      maxParticipants,
		RegistrationDeadline: &deadline,
	}
	require.NoError(t, db.Create(e).Error)
	return e.ID
}

func TestRegister_CapacityCycle(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	deadline := time.Now().Add(24 * time.Hour)
	eventID := seedWorkshop(t, db, 1, deadline, models.StatusRegistrationOpen)
	userA := seedProfile(t, db, "alice")
	userB := seedProfile(t, db, "bob")

	_, err := s.Register(ctx, eventID, userA, models.ModeWorkshop)
	require.NoError(t, err)

	_, err = s.Register(ctx, eventID, userB, models.ModeWorkshop)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "Workshop is full", err.Error())

	require.NoError(t, s.Cancel(ctx, eventID, userA, models.ModeWorkshop))

	_, err = s.Register(ctx, eventID, userB, models.ModeWorkshop)
	require.NoError(t, err)
}

func TestRegister_Duplicate(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 10, time.Now().Add(time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "carol")

	_, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.NoError(t, err)

	_, err = s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "Already registered for this workshop", err.Error())
}

func TestRegister_DeadlinePassed(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 10, time.Now().Add(-time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "dave")

	_, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.Error(t, err)
	assert.Equal(t, apperr.DeadlinePassed, apperr.KindOf(err))
}

func TestRegister_CompletedEvent(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 10, time.Now().Add(time.Hour), models.StatusCompleted)
	user := seedProfile(t, db, "erin")

	_, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

// Precondition order: a duplicate row outranks a full event, a full event
// outranks a passed deadline.
func TestRegister_PreconditionOrder(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 1, time.Now().Add(time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "frank")
	other := seedProfile(t, db, "grace")

	_, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.NoError(t, err)

	// The event is now full, but user's own duplicate row is reported first.
	_, err = s.Register(ctx, eventID, user, models.ModeWorkshop)
	assert.Equal(t, "Already registered for this workshop", err.Error())

	// Deadline in the past, but capacity is reported first for others.
	require.NoError(t, db.Model(&models.Event{}).Where("id = ?", eventID).
		Update("registration_deadline", time.Now().Add(-time.Hour)).Error)
	_, err = s.Register(ctx, eventID, other, models.ModeWorkshop)
	assert.Equal(t, "Workshop is full", err.Error())
}

func TestRegister_ModeMismatch(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 10, time.Now().Add(time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "heidi")

	_, err := s.Register(ctx, eventID, user, models.ModeEvent)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "Event not found", err.Error())
}

func TestCancel_TwiceFails(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 10, time.Now().Add(time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "ivan")

	_, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.NoError(t, err)
	require.NoError(t, s.Cancel(ctx, eventID, user, models.ModeWorkshop))

	err = s.Cancel(ctx, eventID, user, models.ModeWorkshop)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.Equal(t, "No registration found for this workshop", err.Error())
}

func TestRegister_SnapshotsProfile(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 0, time.Now().Add(time.Hour), models.StatusRegistrationOpen)
	user := seedProfile(t, db, "judy")

	p, err := s.Register(ctx, eventID, user, models.ModeWorkshop)
	require.NoError(t, err)
	assert.Equal(t, "judy", p.FullName)
	assert.Equal(t, "judy@example.com", p.Email)
	assert.Equal(t, models.ParticipantRegistered, p.Status)
}

func TestRoster_DescendingOrder(t *testing.T) {
	s, db := setupRegTest(t)
	ctx := context.Background()
	eventID := seedWorkshop(t, db, 0, time.Now().Add(time.Hour), models.StatusRegistrationOpen)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.EventParticipant{
			EventID:      eventID,
			UserID:       uuid.New(),
			FullName:     "p",
			Email:        "p@example.com",
			Status:       models.ParticipantRegistered,
			RegisteredAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	_, rows, err := s.Roster(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].RegisteredAt.After(rows[1].RegisteredAt))
	assert.True(t, rows[1].RegisteredAt.After(rows[2].RegisteredAt))
}
