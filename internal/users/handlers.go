package users

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

// ListMembers GET /api/v1/users/members (view_members permission via middleware)
func (h *Handlers) ListMembers(c *fiber.Ctx) error {
	rows, err := h.Service.ListMembers(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Members retrieved", rows, nil)
}

// ListPending GET /api/v1/users/pending (manage_pending_users permission via middleware)
func (h *Handlers) ListPending(c *fiber.Ctx) error {
	rows, err := h.Service.ListPending(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pending users retrieved", rows, nil)
}

// AddPending POST /api/v1/users/pending (manage_pending_users permission via middleware)
func (h *Handlers) AddPending(c *fiber.Ctx) error {
	var in AddPendingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", apperr.Validation, nil)
	}
	pu, err := h.Service.AddPending(c.Context(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Pending user added", pu, nil)
}

// RemovePending DELETE /api/v1/users/pending/:id (manage_pending_users permission via middleware)
func (h *Handlers) RemovePending(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid pending user ID format", apperr.Validation, nil)
	}
	if err := h.Service.RemovePending(c.Context(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Pending user removed", nil, nil)
}

// Promote POST /api/v1/users/pending/:id/promote (manage_pending_users permission via middleware)
func (h *Handlers) Promote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid pending user ID format", apperr.Validation, nil)
	}
	profile, err := h.Service.Promote(c.Context(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Member created", profile, nil)
}

// UpdateRole PATCH /api/v1/users/:id/role (assign_role permission via middleware)
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid member ID format", apperr.Validation, nil)
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.Role == "" {
		return response.Error(c, "Role is required", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)
	profile, err := h.Service.UpdateRole(c.Context(), actorID, id, body.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Role updated", profile, nil)
}
