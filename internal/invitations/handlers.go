package invitations

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

// Send POST /api/v1/invitations/send
func (h *Handlers) Send(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		TeamID   string `json:"team_id"`
		MemberID string `json:"member_id"`
		EventID  string `json:"event_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.TeamID == "" || body.MemberID == "" || body.EventID == "" {
		return response.Error(c, "Team, member and event IDs are required", apperr.Validation, nil)
	}
	teamID, err1 := uuid.Parse(body.TeamID)
	memberID, err2 := uuid.Parse(body.MemberID)
	eventID, err3 := uuid.Parse(body.EventID)
	if err1 != nil || err2 != nil || err3 != nil {
		return response.Error(c, "Invalid ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	inv, err := h.Service.Send(c.Context(), teamID, memberID, eventID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Invitation sent successfully", inv, nil)
}

// Cancel POST /api/v1/invitations/:id/cancel
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid invitation ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	inv, err := h.Service.Cancel(c.Context(), invitationID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Invitation cancelled successfully", inv, nil)
}

// Reinvite POST /api/v1/invitations/reinvite
func (h *Handlers) Reinvite(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		TeamID   string `json:"team_id"`
		MemberID string `json:"member_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.TeamID == "" || body.MemberID == "" {
		return response.Error(c, "Team and member IDs are required", apperr.Validation, nil)
	}
	teamID, err1 := uuid.Parse(body.TeamID)
	memberID, err2 := uuid.Parse(body.MemberID)
	if err1 != nil || err2 != nil {
		return response.Error(c, "Invalid ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	inv, err := h.Service.Reinvite(c.Context(), teamID, memberID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Invitation resent successfully", inv, nil)
}

// Respond POST /api/v1/invitations/:id/respond
func (h *Handlers) Respond(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	invitationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid invitation ID format", apperr.Validation, nil)
	}
	var body struct {
		Accept *bool `json:"accept"`
	}
	if err := c.BodyParser(&body); err != nil || body.Accept == nil {
		return response.Error(c, "Accept flag is required", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	inv, err := h.Service.Respond(c.Context(), invitationID, actorID, *body.Accept)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Invitation response recorded", inv, nil)
}

// TeamStatus GET /api/v1/invitations/team/:team_id
func (h *Handlers) TeamStatus(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	rows, err := h.Service.TeamStatus(c.Context(), teamID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Invitations fetched successfully", rows, nil)
}

// AvailableMembers GET /api/v1/invitations/available/:team_id
func (h *Handlers) AvailableMembers(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	teamID, err := uuid.Parse(c.Params("team_id"))
	if err != nil {
		return response.Error(c, "Invalid team ID format", apperr.Validation, nil)
	}
	actorID, _ := uuid.Parse(actor.UserID)

	candidates, err := h.Service.AvailableMembers(c.Context(), teamID, actorID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Available members fetched successfully", candidates, nil)
}
