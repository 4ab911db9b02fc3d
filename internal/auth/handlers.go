package auth

import (
	"context"

	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/emails"
	"clubdesk-backend/internal/middleware"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service       *Service
	UserFinder    UserFinder
	Rdb           *redis.Client
	Config        middleware.SessionConfig
	Emails        emails.Sender
	VerifyBaseURL string
}

// LoginRequest body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — authenticate, create session, track it in
// user_sessions:<id>, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", apperr.Internal, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", apperr.Validation, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", apperr.Validation, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		return response.FromError(c, err)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:     user.ID.String(),
		FullName:   user.FullName,
		Email:      user.Email,
		Role:       user.Role,
		MemberRole: user.MemberRole,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+user.ID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", apperr.Internal, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":      user.ID.String(),
			"full_name":    user.FullName,
			"email":        user.Email,
			"role":         user.Role,
			"member_role":  user.MemberRole,
			"is_core_team": user.IsCoreTeam,
		},
	}, nil)
}

// Signup POST /api/v1/auth/signup — invite-based: requires a pending user
// for the email; emails a verification link.
func (h *Handlers) Signup(c *fiber.Ctx) error {
	if h.Service == nil {
		return response.Error(c, "Internal Server Error", apperr.Internal, nil)
	}
	var req SignupInput
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", apperr.Validation, nil)
	}

	result, err := h.Service.Signup(c.Context(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	link := h.VerifyBaseURL + "/api/v1/auth/verify?token_hash=" + HashToken(result.Token) + "&type=signup"
	if h.Emails != nil {
		if err := h.Emails.SendVerification(context.Background(), result.Email, link); err != nil {
			log.Warn().Str("email", result.Email).Err(err).Msg("verification email failed")
		}
	}

	return response.SuccessCreated(c, "Verification email sent", fiber.Map{"email": result.Email}, nil)
}

// VerifyEmail GET /api/v1/auth/verify?token_hash=...&type=signup — promotes
// the pending user and redirects to the role-specific landing path; any
// failure redirects to the generic error path.
func (h *Handlers) VerifyEmail(c *fiber.Ctx) error {
	tokenHash := c.Query("token_hash")
	verType := c.Query("type")

	profile, err := h.Service.Verify(c.Context(), tokenHash, verType)
	if err != nil {
		log.Info().Str("type", verType).Err(err).Msg("email verification failed")
		return c.Redirect("/auth/error", fiber.StatusSeeOther)
	}

	if profile.Role == constants.Core {
		return c.Redirect("/core", fiber.StatusSeeOther)
	}
	return c.Redirect("/member", fiber.StatusSeeOther)
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	user, err := VerifyUser(sessionUser)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — remove session from Redis, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser, err := VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	ctx := context.Background()
	if sessionID != "" {
		h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID)
		h.Rdb.SRem(ctx, userSessionsPrefix+sessionUser.UserID, sessionID)
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}

// SessionUserShape is the object stored in session and returned by /me.
type SessionUserShape struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	MemberRole string `json:"member_role"`
}

// VerifyUser validates the session user map and returns the /me shape.
func VerifyUser(sessionUser interface{}) (*SessionUserShape, error) {
	if sessionUser == nil {
		return nil, ErrNotAuthenticated
	}
	m, ok := sessionUser.(map[string]interface{})
	if !ok {
		return nil, ErrNotAuthenticated
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return &SessionUserShape{
		UserID:     userID,
		FullName:   str(m["full_name"]),
		Email:      str(m["email"]),
		Role:       str(m["role"]),
		MemberRole: str(m["member_role"]),
	}, nil
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
