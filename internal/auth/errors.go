package auth

import "clubdesk-backend/internal/pkg/apperr"

var (
	ErrEmailPasswordRequired = apperr.E(apperr.Validation, "Email and password are required")
	ErrInvalidEmail          = apperr.E(apperr.Unauthorized, "Invalid Email")
	ErrIncorrectPassword     = apperr.E(apperr.Unauthorized, "Incorrect Password")
	ErrNotAuthenticated      = apperr.E(apperr.Unauthorized, "Not authenticated")
)
