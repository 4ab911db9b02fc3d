package registrations

import (
	"clubdesk-backend/internal/middleware"
	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"
	"clubdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type registerRequest struct {
	EventID string `json:"event_id"`
	Mode    string `json:"mode"`
}

// Register POST /api/v1/registrations/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req registerRequest
	if err := c.BodyParser(&req); err != nil || req.EventID == "" {
		return response.Error(c, "Event ID is required", apperr.Validation, nil)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	userID, _ := uuid.Parse(actor.UserID)

	participant, err := h.Service.Register(c.Context(), eventID, userID, req.Mode)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Registered successfully", participant, nil)
}

// Cancel POST /api/v1/registrations/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req registerRequest
	if err := c.BodyParser(&req); err != nil || req.EventID == "" {
		return response.Error(c, "Event ID is required", apperr.Validation, nil)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	userID, _ := uuid.Parse(actor.UserID)

	if err := h.Service.Cancel(c.Context(), eventID, userID, req.Mode); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Registration cancelled", nil, nil)
}

// Mine GET /api/v1/registrations/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := uuid.Parse(actor.UserID)
	rows, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Registrations fetched successfully", rows, nil)
}

// Export GET /api/v1/registrations/export/:event_id (core only via middleware)
// Streams the roster CSV as an attachment.
func (h *Handlers) Export(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	event, participants, err := h.Service.Roster(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}

	filename := "registrations"
	if event.Mode == models.ModeWorkshop {
		filename = "workshop-registrations"
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+".csv\"")
	return c.SendString(ExportCSV(participants))
}
