package attendance

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

// GetSheet GET /api/v1/attendance/sheet/:event_id (core only via middleware)
func (h *Handlers) GetSheet(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	sheet, err := h.Service.GetSheet(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Attendance sheet fetched successfully", sheet, nil)
}

type updateRequest struct {
	EventID string  `json:"event_id"`
	Entries []Entry `json:"entries"`
}

// Update POST /api/v1/attendance/update (core only via middleware)
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil || req.EventID == "" {
		return response.Error(c, "Event ID and entries are required", apperr.Validation, nil)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	result, err := h.Service.Update(c.Context(), eventID, actorID, req.Entries)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Attendance updated successfully", result, nil)
}

// AuditTrail GET /api/v1/attendance/audit/:event_id (core only via middleware)
func (h *Handlers) AuditTrail(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	logs, err := h.Service.AuditTrail(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Audit trail fetched successfully", logs, nil)
}
