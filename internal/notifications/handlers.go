package notifications

import (
	"clubdesk-backend/internal/middleware"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// List GET /api/v1/notifications
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	recipientID, _ := uuid.Parse(actor.UserID)
	rows, err := h.Service.List(c.Context(), recipientID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notifications fetched successfully", rows, nil)
}

// MarkRead POST /api/v1/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid notification ID format", apperr.Validation, nil)
	}
	recipientID, _ := uuid.Parse(actor.UserID)
	if err := h.Service.MarkRead(c.Context(), id, recipientID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}
