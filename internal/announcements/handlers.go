package announcements

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

// Create POST /api/v1/announcements (manage_announcements permission via middleware)
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)
	ann, err := h.Service.Create(c.Context(), actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Announcement created", ann, nil)
}

// Update PATCH /api/v1/announcements/:id (manage_announcements permission via middleware)
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid announcement ID format", apperr.Validation, nil)
	}
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)
	ann, err := h.Service.Update(c.Context(), id, actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Announcement updated", ann, nil)
}

// List GET /api/v1/announcements
func (h *Handlers) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	rows, err := h.Service.List(c.Context(), actor.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Announcements retrieved", rows, nil)
}

// MarkSeen POST /api/v1/announcements/seen
func (h *Handlers) MarkSeen(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := uuid.Parse(actor.UserID)
	if err := h.Service.MarkSeen(c.Context(), userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Announcements marked as seen", nil, nil)
}

// UnseenCount GET /api/v1/announcements/unseen
func (h *Handlers) UnseenCount(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := uuid.Parse(actor.UserID)
	count, err := h.Service.UnseenCount(c.Context(), userID, actor.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Unseen count retrieved", fiber.Map{"unseen": count}, nil)
}
