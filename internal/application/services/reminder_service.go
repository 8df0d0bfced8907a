package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	apperrors "github.com/pathwaysai/patient-copilot/pkg/errors"
)

// ReminderService manages care reminders for patients.
type ReminderService struct {
	reminders repositories.ReminderRepository
	users     repositories.UserRepository
}

// NewReminderService creates a new reminder service.
func NewReminderService(reminders repositories.ReminderRepository, users repositories.UserRepository) *ReminderService {
	return &ReminderService{reminders: reminders, users: users}
}

// Create schedules a reminder for an existing user.
func (s *ReminderService) Create(ctx context.Context, userID, title string, scheduledFor time.Time) (*entities.Reminder, error) {
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	reminder := &entities.Reminder{
		ID:           uuid.New().String(),
		UserID:       userID,
		Title:        title,
		ScheduledFor: scheduledFor,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.reminders.Create(ctx, reminder); err != nil {
		return nil, err
	}

	return reminder, nil
}

// ListForUser returns the user's reminders, soonest first.
func (s *ReminderService) ListForUser(ctx context.Context, userID string) ([]*entities.Reminder, error) {
	return s.reminders.ListByUser(ctx, userID)
}
