package events

import (
	"context"
	"strings"
	"time"

	"clubdesk-backend/internal/models"
	"clubdesk-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateInput for a new event or workshop.
type CreateInput struct {
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Mode                 string     `json:"mode"`
	Type                 string     `json:"type"`
	MaxParticipants      int        `json:"max_participants"`
	TeamSize             int        `json:"team_size"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Category             string     `json:"category"`
	BannerURL            string     `json:"banner_url"`
	MeetingLink          string     `json:"meeting_link"`
}

func (s *Service) Create(ctx context.Context, actorID uuid.UUID, in CreateInput) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.E(apperr.Validation, "Title is required")
	}
	if in.Mode != models.ModeEvent && in.Mode != models.ModeWorkshop {
		return nil, apperr.E(apperr.Validation, "Mode must be event or workshop")
	}
	if in.Type != models.TypeIndividual && in.Type != models.TypeTeam {
		return nil, apperr.E(apperr.Validation, "Type must be individual or team")
	}
	if in.Type == models.TypeTeam && in.TeamSize <= 0 {
		return nil, apperr.E(apperr.Validation, "Team size is required for team events")
	}
	if in.MaxParticipants < 0 {
		return nil, apperr.E(apperr.Validation, "Max participants cannot be negative")
	}

	event := &models.Event{
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Mode:                 in.Mode,
		Type:                 in.Type,
		Status:               models.StatusUpcoming,
		MaxParticipants:      in.MaxParticipants,
		TeamSize:             in.TeamSize,
		RegistrationDeadline: in.RegistrationDeadline,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		Category:             in.Category,
		BannerURL:            in.BannerURL,
		MeetingLink:          in.MeetingLink,
		CreatedBy:            actorID,
	}
	if err := s.DB.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Update mutates allowed fields. Completed and cancelled events are frozen.
func (s *Service) Update(ctx context.Context, eventID uuid.UUID, fields map[string]interface{}) (*models.Event, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.StatusCompleted || event.Status == models.StatusCancelled {
		return nil, apperr.E(apperr.InvalidState, "Cannot update a "+event.Status+" event")
	}

	allowed := map[string]bool{
		"title": true, "description": true, "max_participants": true, "team_size": true,
		"registration_deadline": true, "start_date": true, "end_date": true,
		"category": true, "banner_url": true, "meeting_link": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			upd[k] = v
		}
	}
	if len(upd) == 0 {
		return nil, apperr.E(apperr.Validation, "No valid update fields provided")
	}
	if t, ok := upd["title"].(string); ok && strings.TrimSpace(t) == "" {
		return nil, apperr.E(apperr.Validation, "Title cannot be empty")
	}

	if err := s.DB.WithContext(ctx).Model(event).Updates(upd).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

// statusTransitions is the allowed lifecycle graph; cancelled is reachable
// from every non-terminal state.
var statusTransitions = map[string][]string{
	models.StatusUpcoming:         {models.StatusRegistrationOpen, models.StatusCancelled},
	models.StatusRegistrationOpen: {models.StatusOngoing, models.StatusCancelled},
	models.StatusOngoing:          {models.StatusCompleted, models.StatusCancelled},
}

// SetStatus advances the event lifecycle along the allowed transitions.
func (s *Service) SetStatus(ctx context.Context, eventID uuid.UUID, status string) (*models.Event, error) {
	if !models.ValidStatus(status) {
		return nil, apperr.E(apperr.Validation, "Unknown event status")
	}
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ok := false
	for _, next := range statusTransitions[event.Status] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, apperr.E(apperr.InvalidState, "Cannot move event from "+event.Status+" to "+status)
	}
	if err := s.DB.WithContext(ctx).Model(event).Update("status", status).Error; err != nil {
		return nil, err
	}
	event.Status = status
	return event, nil
}

// Delete removes an event. Forbidden once registrations exist, unless the
// event was cancelled first.
func (s *Service) Delete(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status != models.StatusCancelled {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.EventParticipant{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.E(apperr.InvalidState, "Cannot delete an event with registrations; cancel it first")
		}
	}
	return s.DB.WithContext(ctx).Delete(&models.Event{}, "id = ?", eventID).Error
}

// Get returns one event.
func (s *Service) Get(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.DB.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.E(apperr.NotFound, "Event not found")
		}
		return nil, err
	}
	return &event, nil
}

// List returns events, optionally filtered by mode and/or status, newest
// start date first.
func (s *Service) List(ctx context.Context, mode, status string) ([]models.Event, error) {
	q := s.DB.WithContext(ctx).Model(&models.Event{})
	if mode != "" {
		q = q.Where("mode = ?", mode)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var events []models.Event
	if err := q.Order("start_date DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
