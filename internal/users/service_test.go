package users

import (
	"context"
	"testing"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.PendingUser{}))
	return &Service{DB: db}, db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) uuid.UUID {
	p := &models.Profile{FullName: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(p).Error)
	return p.ID
}

func TestAddPending_Validation(t *testing.T) {
	s, _ := setupUserTest(t)
	ctx := context.Background()

	_, err := s.AddPending(ctx, AddPendingInput{Email: "not-an-email", FullName: "Ok Name"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.AddPending(ctx, AddPendingInput{Email: "ok@example.com", FullName: "X"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.AddPending(ctx, AddPendingInput{Email: "ok@example.com", FullName: "Ok Name", Role: "superadmin"})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestAddPending_NormalizesAndDefaults(t *testing.T) {
	s, _ := setupUserTest(t)
	pu, err := s.AddPending(context.Background(), AddPendingInput{Email: "  New.Member@Example.COM ", FullName: "New Member"})
	require.NoError(t, err)
	assert.Equal(t, "new.member@example.com", pu.Email)
	assert.Equal(t, constants.Member, pu.Role)
}

func TestAddPending_Conflicts(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	seedUser(t, db, "existing", constants.Member)

	_, err := s.AddPending(ctx, AddPendingInput{Email: "existing@example.com", FullName: "Existing User"})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = s.AddPending(ctx, AddPendingInput{Email: "invited@example.com", FullName: "Invited User"})
	require.NoError(t, err)
	_, err = s.AddPending(ctx, AddPendingInput{Email: "invited@example.com", FullName: "Invited User"})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestRemovePending_Twice(t *testing.T) {
	s, _ := setupUserTest(t)
	ctx := context.Background()
	pu, err := s.AddPending(ctx, AddPendingInput{Email: "gone@example.com", FullName: "Soon Gone"})
	require.NoError(t, err)

	require.NoError(t, s.RemovePending(ctx, pu.ID))
	err = s.RemovePending(ctx, pu.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestPromote_ConsumesPendingUser(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	pu, err := s.AddPending(ctx, AddPendingInput{Email: "promoted@example.com", FullName: "Promoted User", Role: constants.Core})
	require.NoError(t, err)

	profile, err := s.Promote(ctx, pu.ID)
	require.NoError(t, err)
	assert.Equal(t, "promoted@example.com", profile.Email)
	assert.Equal(t, constants.Core, profile.Role)

	var pendingCount int64
	require.NoError(t, db.Model(&models.PendingUser{}).Count(&pendingCount).Error)
	assert.EqualValues(t, 0, pendingCount)

	// Consumed exactly once.
	_, err = s.Promote(ctx, pu.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestUpdateRole_SelfChangeBlocked(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin", constants.Core)

	_, err := s.UpdateRole(ctx, admin, admin, constants.Member)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
}

func TestUpdateRole_LastCoreProtected(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin", constants.Core)
	other := seedUser(t, db, "other", constants.Core)
	actor := seedUser(t, db, "actor", constants.Core)

	// Three core members: demotions work until one remains.
	_, err := s.UpdateRole(ctx, actor, admin, constants.Member)
	require.NoError(t, err)
	_, err = s.UpdateRole(ctx, actor, other, constants.Member)
	require.NoError(t, err)

	member := seedUser(t, db, "member", constants.Member)
	_, err = s.UpdateRole(ctx, member, actor, constants.Member)
	require.Error(t, err)
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))
	assert.Equal(t, "Cannot demote the last core member", err.Error())
}

func TestUpdateRole_PromoteMember(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin", constants.Core)
	member := seedUser(t, db, "member", constants.Member)

	updated, err := s.UpdateRole(ctx, admin, member, constants.Core)
	require.NoError(t, err)
	assert.Equal(t, constants.Core, updated.Role)
}

func TestUpdateRole_UnknownRoleAndTarget(t *testing.T) {
	s, db := setupUserTest(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin", constants.Core)

	_, err := s.UpdateRole(ctx, admin, uuid.New(), "owner")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.UpdateRole(ctx, admin, uuid.New(), constants.Member)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
