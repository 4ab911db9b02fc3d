package users

import (
	"context"
	"strings"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// MemberView is the roster shape exposed to core members.
type MemberView struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullname"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (s *Service) ListMembers(ctx context.Context) ([]MemberView, error) {
	var rows []MemberView
	if err := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Select("id, full_name, email, role").
		Order("full_name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.PendingUser, error) {
	var rows []models.PendingUser
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddPendingInput describes a person invited to sign up.
type AddPendingInput struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	Role     string `json:"role"`
}

func (s *Service) AddPending(ctx context.Context, in AddPendingInput) (*models.PendingUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperr.E(apperr.Validation, "Invalid email address")
	}
	if !validation.IsValidFullname(in.FullName) {
		return nil, apperr.E(apperr.Validation, "Invalid full name")
	}
	role := in.Role
	if role == "" {
		role = constants.Member
	}
	if !constants.ValidRole(role) {
		return nil, apperr.E(apperr.Validation, "Unknown role")
	}

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.E(apperr.Conflict, "An account with this email already exists")
	}
	if err := s.DB.WithContext(ctx).Model(&models.PendingUser{}).
		Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.E(apperr.Conflict, "This email is already invited")
	}

	pu := &models.PendingUser{Email: email, FullName: strings.TrimSpace(in.FullName), Role: role}
	if err := s.DB.WithContext(ctx).Create(pu).Error; err != nil {
		return nil, err
	}
	return pu, nil
}

func (s *Service) RemovePending(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.PendingUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "Pending user not found")
	}
	return nil
}

// Promote converts a pending user into a profile without the email flow.
// The profile starts without a password; the member sets one through the
// normal signup verification.
func (s *Service) Promote(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var pu models.PendingUser
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&pu).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Pending user not found")
		}
		return nil, err
	}
	profile := &models.Profile{
		Email:    pu.Email,
		FullName: pu.FullName,
		Role:     pu.Role,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", pu.ID).Delete(&models.PendingUser{}).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateRole changes a member's role. A core member cannot change their own
// role, and the last remaining core member cannot be demoted.
func (s *Service) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.Profile, error) {
	if !constants.ValidRole(role) {
		return nil, apperr.E(apperr.Validation, "Unknown role")
	}
	if actorID == targetID {
		return nil, apperr.E(apperr.InvalidState, "You cannot change your own role")
	}
	var target models.Profile
	if err := s.DB.WithContext(ctx).Where("id = ?", targetID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Member not found")
		}
		return nil, err
	}
	if target.Role == role {
		return &target, nil
	}
	if target.Role == constants.Core && role != constants.Core {
		var coreCount int64
		if err := s.DB.WithContext(ctx).Model(&models.Profile{}).
			Where("role = ?", constants.Core).Count(&coreCount).Error; err != nil {
			return nil, err
		}
		if coreCount <= 1 {
			return nil, apperr.E(apperr.InvalidState, "Cannot demote the last core member")
		}
	}
	target.Role = role
	if err := s.DB.WithContext(ctx).Save(&target).Error; err != nil {
		return nil, err
	}
	return &target, nil
}
