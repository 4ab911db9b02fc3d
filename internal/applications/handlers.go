package applications

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

// Apply POST /api/v1/applications/apply
func (h *Handlers) Apply(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		TeamID string `json:"team_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.TeamID == "" {
		return response.Error(c, "Team ID is required", apperr.Validation, nil)
	}
	teamID, err := uuid.Parse(body.TeamID)
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	userID, _ := uuid.Parse(actor.UserID)

	app, err := h.Service.Apply(c.Context(), teamID, userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Application submitted successfully", app, nil)
}

// Withdraw POST /api/v1/applications/:id/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid application ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	if err := h.Service.Withdraw(c.Context(), applicationID, actorID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application withdrawn successfully", nil, nil)
}

// Respond POST /api/v1/applications/:id/respond
func (h *Handlers) Respond(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	applicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid application ID format", apperr.Validation, nil)
	}
	var body struct {
		Accept *bool `json:"accept"`
	}
	if err := c.BodyParser(&body); err != nil || body.Accept == nil {
		return response.Error(c, "Accept flag is required", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	app, err := h.Service.Respond(c.Context(), applicationID, actorID, *body.Accept)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Application response recorded", app, nil)
}

// ListForTeam GET /api/v1/applications/team/:team_id
func (h *Handlers) ListForTeam(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	apps, err := h.Service.ListForTeam(c.Context(), teamID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications fetched successfully", apps, nil)
}

// Mine GET /api/v1/applications/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, _ := uuid.Parse(actor.UserID)
	apps, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Applications fetched successfully", apps, nil)
}
