package events

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

// Create POST /api/v1/events (manage_events permission via middleware)
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
	event, err := h.Service.Create(c.Context(), actorID, in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Event created successfully", event, nil)
}

// Update PATCH /api/v1/events/:id (manage_events permission via middleware)
func (h *Handlers) Update(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil || len(fields) == 0 {
		return response.Error(c, "Missing update fields", apperr.Validation, nil)
	}
	event, err := h.Service.Update(c.Context(), eventID, fields)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Event updated successfully", event, nil)
}

// SetStatus PATCH /api/v1/events/:id/status (manage_events permission via middleware)
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "Status is required", apperr.Validation, nil)
	}
	event, err := h.Service.SetStatus(c.Context(), eventID, body.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Event status updated", event, nil)
}

// Delete DELETE /api/v1/events/:id (manage_events permission via middleware)
func (h *Handlers) Delete(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	if err := h.Service.Delete(c.Context(), eventID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Event deleted successfully", nil, nil)
}

// Get GET /api/v1/events/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	event, err := h.Service.Get(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Event fetched successfully", event, nil)
}

// List GET /api/v1/events?mode=&status=
func (h *Handlers) List(c *fiber.Ctx) error {
	events, err := h.Service.List(c.Context(), c.Query("mode"), c.Query("status"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Events fetched successfully", events, nil)
}
