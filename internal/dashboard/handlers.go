package dashboard

import (
	"clubdesk-backend/internal/middleware"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// MemberSummary GET /api/v1/dashboard/summary
func (h *Handlers) MemberSummary(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := uuid.Parse(actor.UserID)
	summary, err := h.Service.MemberSummary(c.Context(), userID, actor.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Summary retrieved", summary, nil)
}

// AdminSummary GET /api/v1/dashboard/admin (view_admin_dashboard permission via middleware)
func (h *Handlers) AdminSummary(c *fiber.Ctx) error {
	summary, err := h.Service.AdminSummary(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Summary retrieved", summary, nil)
}
