package announcements

import (
	"context"
	"testing"
	"time"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/cache"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAnnTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Announcement{}, &models.Profile{}))
	return &Service{DB: db, Cache: &cache.Cache{}}, db
}

func TestCreate_Validation(t *testing.T) {
	s, _ := setupAnnTest(t)
	ctx := context.Background()
	actor := uuid.New()

	_, err := s.Create(ctx, actor, CreateInput{Title: " ", Content: "body"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.Create(ctx, actor, CreateInput{Title: "T", Content: "b", TargetAudience: "everyone"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCreate_DefaultsToAll(t *testing.T) {
	s, _ := setupAnnTest(t)
	ann, err := s.Create(context.Background(), uuid.New(), CreateInput{Title: "Welcome", Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, models.AudienceAll, ann.TargetAudience)
}

// All variants are stored identically; the audience filter applies at read
// time only.
func TestList_AudienceFilterByRole(t *testing.T) {
	s, _ := setupAnnTest(t)
	ctx := context.Background()
	actor := uuid.New()

	_, err := s.Create(ctx, actor, CreateInput{Title: "For everyone", Content: "x", TargetAudience: models.AudienceAll})
	require.NoError(t, err)
	_, err = s.Create(ctx, actor, CreateInput{Title: "Core only", Content: "x", TargetAudience: models.AudienceCoreTeam})
	require.NoError(t, err)
	_, err = s.Create(ctx, actor, CreateInput{Title: "Members only", Content: "x", TargetAudience: models.AudienceMembers})
	require.NoError(t, err)

	memberRows, err := s.List(ctx, constants.Member)
	require.NoError(t, err)
	require.Len(t, memberRows, 2)
	for _, a := range memberRows {
		assert.NotEqual(t, models.AudienceCoreTeam, a.TargetAudience)
	}

	coreRows, err := s.List(ctx, constants.Core)
	require.NoError(t, err)
	require.Len(t, coreRows, 2)
	for _, a := range coreRows {
		assert.NotEqual(t, models.AudienceMembers, a.TargetAudience)
	}
}

func TestList_ImportantFirst(t *testing.T) {
	s, _ := setupAnnTest(t)
	ctx := context.Background()
	actor := uuid.New()

	_, err := s.Create(ctx, actor, CreateInput{Title: "Routine", Content: "x"})
	require.NoError(t, err)
	_, err = s.Create(ctx, actor, CreateInput{Title: "Urgent", Content: "x", IsImportant: true})
	require.NoError(t, err)

	rows, err := s.List(ctx, constants.Member)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Urgent", rows[0].Title)
}

func TestUpdate_StampsEditor(t *testing.T) {
	s, _ := setupAnnTest(t)
	ctx := context.Background()
	author := uuid.New()
	editor := uuid.New()

	ann, err := s.Create(ctx, author, CreateInput{Title: "Draft", Content: "v1"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, ann.ID, editor, CreateInput{Title: "Final", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, editor, *updated.UpdatedBy)
	assert.Equal(t, author, updated.CreatedBy)
}

func TestUnseenCount_AndMarkSeen(t *testing.T) {
	s, db := setupAnnTest(t)
	ctx := context.Background()

	reader := &models.Profile{FullName: "Reader", Email: "reader@example.com", PasswordHash: "x", Role: constants.Member}
	require.NoError(t, db.Create(reader).Error)

	author := uuid.New()
	_, err := s.Create(ctx, author, CreateInput{Title: "One", Content: "x"})
	require.NoError(t, err)
	_, err = s.Create(ctx, author, CreateInput{Title: "Core note", Content: "x", TargetAudience: models.AudienceCoreTeam})
	require.NoError(t, err)

	// Never marked seen: every visible announcement counts.
	count, err := s.UnseenCount(ctx, reader.ID, constants.Member)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, s.MarkSeen(ctx, reader.ID))
	count, err = s.UnseenCount(ctx, reader.ID, constants.Member)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// A newer announcement shows up again.
	time.Sleep(5 * time.Millisecond)
	later := &models.Announcement{Title: "Two", Content: "x", TargetAudience: models.AudienceAll, CreatedBy: author, CreatedAt: time.Now().Add(time.Second)}
	require.NoError(t, db.Create(later).Error)
	count, err = s.UnseenCount(ctx, reader.ID, constants.Member)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkSeen_UnknownProfile(t *testing.T) {
	s, _ := setupAnnTest(t)
	err := s.MarkSeen(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
