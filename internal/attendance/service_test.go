package attendance

import (
	"context"
	"encoding/json"
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

func setupAttTest(t *testing.T) (*Service, *gorm.DB, uuid.UUID, []uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.EventParticipant{}, &models.EventAuditLog{}))

	event := &models.Event{Title: "Git Basics", Mode: models.ModeWorkshop, Type: models.TypeIndividual, Status: models.StatusOngoing}
	require.NoError(t, db.Create(event).Error)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		p := &models.EventParticipant{
			EventID: event.ID, UserID: uuid.New(), FullName: "p", Email: "p@example.com",
			Status: models.ParticipantRegistered, RegisteredAt: time.Now(),
		}
		require.NoError(t, db.Create(p).Error)
		ids = append(ids, p.ID)
	}
	return &Service{DB: db, Cache: &cache.Cache{}}, db, event.ID, ids
}

func TestUpdate_FlagsStatusAndAudit(t *testing.T) {
	s, db, eventID, ids := setupAttTest(t)
	ctx := context.Background()
	actor := uuid.New()

	result, err := s.Update(ctx, eventID, actor, []Entry{
		{ParticipantID: ids[0], Attended: true},
		{ParticipantID: ids[1], Attended: true},
		{ParticipantID: ids[2], Attended: false},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Attended)
	assert.Equal(t, 50.0, result.Rate)

	var p0 models.EventParticipant
	require.NoError(t, db.Where("id = ?", ids[0]).First(&p0).Error)
	assert.True(t, p0.Attended)
	assert.Equal(t, models.ParticipantConfirmed, p0.Status)

	var p2 models.EventParticipant
	require.NoError(t, db.Where("id = ?", ids[2]).First(&p2).Error)
	assert.False(t, p2.Attended)
	assert.Equal(t, models.ParticipantRegistered, p2.Status)

	logs, err := s.AuditTrail(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditAttendanceUpdated, logs[0].Action)
	assert.Equal(t, actor, logs[0].ActorID)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(logs[0].Metadata, &meta))
	assert.EqualValues(t, 4, meta["total"])
	assert.EqualValues(t, 2, meta["attended"])
	assert.EqualValues(t, 3, meta["updated"])
}

// A bad entry anywhere in the batch rolls back the whole update, audit row
// included.
func TestUpdate_AllOrNothing(t *testing.T) {
	s, db, eventID, ids := setupAttTest(t)
	ctx := context.Background()

	_, err := s.Update(ctx, eventID, uuid.New(), []Entry{
		{ParticipantID: ids[0], Attended: true},
		{ParticipantID: uuid.New(), Attended: true}, // not on this roster
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	var p0 models.EventParticipant
	require.NoError(t, db.Where("id = ?", ids[0]).First(&p0).Error)
	assert.False(t, p0.Attended)

	var auditCount int64
	require.NoError(t, db.Model(&models.EventAuditLog{}).Count(&auditCount).Error)
	assert.EqualValues(t, 0, auditCount)
}

func TestUpdate_EmptyBatch(t *testing.T) {
	s, _, eventID, _ := setupAttTest(t)
	_, err := s.Update(context.Background(), eventID, uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdate_UnknownEvent(t *testing.T) {
	s, _, _, ids := setupAttTest(t)
	_, err := s.Update(context.Background(), uuid.New(), uuid.New(), []Entry{{ParticipantID: ids[0], Attended: true}})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestGetSheet_RegistrationOrder(t *testing.T) {
	s, _, eventID, ids := setupAttTest(t)
	sheet, err := s.GetSheet(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, eventID, sheet.Workshop.ID)
	require.Len(t, sheet.Participants, len(ids))
}
