package notifications

import (
	"context"
	"testing"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotifTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return &Service{DB: db}, db
}

func TestNotify_StoresStructuredReferences(t *testing.T) {
	s, db := setupNotifTest(t)
	recipient := uuid.New()
	teamID := uuid.New()
	eventID := uuid.New()

	s.Notify(context.Background(), NotifyInput{
		RecipientID: recipient,
		Kind:        models.NotifInvitationReceived,
		Message:     "You have been invited to join team Rocket",
		TeamID:      &teamID,
		EventID:     &eventID,
	})

	var row models.Notification
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, recipient, row.RecipientID)
	assert.Equal(t, models.NotifInvitationReceived, row.Kind)
	require.NotNil(t, row.TeamID)
	assert.Equal(t, teamID, *row.TeamID)
	require.NotNil(t, row.EventID)
	assert.Equal(t, eventID, *row.EventID)
	assert.Nil(t, row.ReadAt)
}

func TestList_NewestFirstAndScopedToRecipient(t *testing.T) {
	s, db := setupNotifTest(t)
	ctx := context.Background()
	mine := uuid.New()
	other := uuid.New()

	old := models.Notification{RecipientID: mine, Kind: models.NotifApplicationDecided, Message: "older"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).Update("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, db.Create(&models.Notification{RecipientID: mine, Kind: models.NotifApplicationDecided, Message: "newer"}).Error)
	require.NoError(t, db.Create(&models.Notification{RecipientID: other, Kind: models.NotifApplicationDecided, Message: "not yours"}).Error)

	rows, err := s.List(ctx, mine)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "newer", rows[0].Message)
	assert.Equal(t, "older", rows[1].Message)
}

func TestMarkRead_OwnerOnly(t *testing.T) {
	s, db := setupNotifTest(t)
	ctx := context.Background()
	owner := uuid.New()

	n := models.Notification{RecipientID: owner, Kind: models.NotifApplicationDecided, Message: "hello"}
	require.NoError(t, db.Create(&n).Error)

	err := s.MarkRead(ctx, n.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	require.NoError(t, s.MarkRead(ctx, n.ID, owner))
	var row models.Notification
	require.NoError(t, db.First(&row, "id = ?", n.ID).Error)
	assert.NotNil(t, row.ReadAt)
}
