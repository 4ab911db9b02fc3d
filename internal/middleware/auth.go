package middleware

import (
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. 401 otherwise.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// RequireRole gates a route group on the session user's role, e.g. the
// /core surface requires role "core". Unauthenticated -> 401, wrong
// role -> 403.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if RoleOf(c) != role {
			return response.Error(c, "User is Forbidden from performing this action", apperr.Forbidden, nil)
		}
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// RoleOf returns the session user's role, or "".
func RoleOf(c *fiber.Ctx) string {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return ""
	}
	r, _ := m["role"].(string)
	return r
}

// Actor is the authenticated caller as seen by handlers.
type Actor struct {
	UserID     string
	FullName   string
	Email      string
	Role       string
	MemberRole string
}

// GetActor returns the session user as an Actor, or nil when not logged in.
func GetActor(c *fiber.Ctx) *Actor {
	m, ok := c.Locals(userLocal).(map[string]interface{})
	if !ok {
		return nil
	}
	userID, _ := m["user_id"].(string)
	if userID == "" {
		return nil
	}
	fullName, _ := m["full_name"].(string)
	email, _ := m["email"].(string)
	role, _ := m["role"].(string)
	memberRole, _ := m["member_role"].(string)
	return &Actor{UserID: userID, FullName: fullName, Email: email, Role: role, MemberRole: memberRole}
}
