package teams

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

// Create POST /api/v1/teams
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		Name    string `json:"name"`
		EventID string `json:"event_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.Name == "" || body.EventID == "" {
		return response.Error(c, "Team name and event ID are required", apperr.Validation, nil)
	}
	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	leaderID, _ := uuid.Parse(actor.UserID)

	team, err := h.Service.Create(c.Context(), leaderID, eventID, body.Name)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Team created successfully", team, nil)
}

// Get GET /api/v1/teams/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	view, err := h.Service.Get(c.Context(), teamID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Team fetched successfully", view, nil)
}

// ListByEvent GET /api/v1/teams/event/:event_id
func (h *Handlers) ListByEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
	}
	teams, err := h.Service.ListByEvent(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Teams fetched successfully", teams, nil)
}

// Leaderboard GET /api/v1/teams/leaderboard?event_id=
func (h *Handlers) Leaderboard(c *fiber.Ctx) error {
	eventID := uuid.Nil
	if q := c.Query("event_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return response.Error(c, "Invalid event ID format", apperr.Validation, nil)
		}
		eventID = id
	}
	teams, err := h.Service.Leaderboard(c.Context(), eventID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Leaderboard fetched successfully", teams, nil)
}

// AdjustPoints POST /api/v1/teams/:id/points (adjust_team_points permission via middleware)
func (h *Handlers) AdjustPoints(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	teamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	var body struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	team, err := h.Service.AdjustPoints(c.Context(), teamID, actorID, body.Delta, body.Reason)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Team points adjusted", team, nil)
}
