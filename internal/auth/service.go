package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const verificationExpiry = 24 * time.Hour

// Service holds DB for auth operations.
type Service struct {
	DB *gorm.DB
}

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserFinder abstracts user lookup by email+password (production GORM or
// test doubles).
type UserFinder interface {
	FindByEmailAndPassword(email, password string) (*models.Profile, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByEmailAndPassword(email, password string) (*models.Profile, error) {
	return LoginUser(g.DB, LoginInput{Email: email, Password: password})
}

// LoginUser finds a profile by email and verifies the password.
func LoginUser(db *gorm.DB, input LoginInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var p models.Profile
	if err := db.Where("email = ?", strings.ToLower(input.Email)).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if p.PasswordHash == "" {
		// Promoted manually but never completed verification: no password yet.
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &p, nil
}

// SignupInput for the signup request body.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResult carries the raw verification token; the caller emails it and
// must not persist it.
type SignupResult struct {
	Email string
	Token string
}

// Signup starts email verification for an invited (pending) user. Onboarding
// is invite-based: a PendingUser row for the email must exist and no Profile
// may exist yet. The bcrypt hash rides on the Verification row until the
// callback promotes it onto the Profile.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !validation.IsValidEmail(email) {
		return nil, apperr.E(apperr.Validation, "Invalid email format")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperr.E(apperr.Validation, "Invalid password format")
	}

	var existing models.Profile
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apperr.E(apperr.Conflict, "Email already registered")
	}
	var pending models.PendingUser
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&pending).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "No invitation found for this email")
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	token := randomHex(32)
	ver := &models.Verification{
		Email:        email,
		TokenHash:    HashToken(token),
		Type:         models.VerificationSignup,
		PasswordHash: string(hash),
		ExpiresAt:    time.Now().Add(verificationExpiry),
	}
	// One live verification per email: replace any earlier attempt.
	if err := s.DB.WithContext(ctx).Where("email = ?", email).Delete(&models.Verification{}).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(ver).Error; err != nil {
		return nil, err
	}
	return &SignupResult{Email: email, Token: token}, nil
}

// Verify consumes a verification token hash and promotes the PendingUser to
// a Profile in one transaction: create profile, delete pending, delete
// verification. Returns the new profile so the handler can pick the
// role-specific landing path.
func (s *Service) Verify(ctx context.Context, tokenHash, verType string) (*models.Profile, error) {
	if tokenHash == "" || verType != models.VerificationSignup {
		return nil, apperr.E(apperr.Validation, "Invalid verification request")
	}

	var ver models.Verification
	if err := s.DB.WithContext(ctx).Where("token_hash = ? AND type = ?", tokenHash, verType).First(&ver).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Invalid verification token")
		}
		return nil, err
	}
	if time.Now().After(ver.ExpiresAt) {
		return nil, apperr.E(apperr.DeadlinePassed, "Verification link has expired")
	}

	var pending models.PendingUser
	if err := s.DB.WithContext(ctx).Where("email = ?", ver.Email).First(&pending).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "No invitation found for this email")
		}
		return nil, err
	}

	profile := &models.Profile{
		FullName:     pending.FullName,
		Email:        pending.Email,
		PasswordHash: ver.PasswordHash,
		Role:         pending.Role,
		MemberRole:   pending.MemberRole,
		IsCoreTeam:   pending.IsCoreTeam,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PendingUser{}, "id = ?", pending.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Verification{}, "id = ?", ver.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// HashToken returns the hex sha256 of a raw token; only the hash is stored
// and only the hash travels in the callback URL.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
