package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	"github.com/pathwaysai/patient-copilot/internal/infrastructure/clients/postgres"
	apperrors "github.com/pathwaysai/patient-copilot/pkg/errors"
)

// ReminderAdapter implements ReminderRepository
type ReminderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReminderAdapter creates a new reminder adapter
func NewReminderAdapter(client *postgres.Client) repositories.ReminderRepository {
	return &ReminderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new reminder
func (a *ReminderAdapter) Create(ctx context.Context, reminder *entities.Reminder) error {
	record := goqu.Record{
		"id":            reminder.ID,
		"user_id":       reminder.UserID,
		"title":         reminder.Title,
		"scheduled_for": reminder.ScheduledFor,
		"created_at":    reminder.CreatedAt,
	}

	query, args, err := a.db.Insert("reminders").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create reminder", err)
	}

	return nil
}

// ListByUser retrieves all reminders for a user, soonest first
func (a *ReminderAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Reminder, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "title", "scheduled_for", "created_at",
	).From("reminders").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("scheduled_for").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reminders", err)
	}
	defer rows.Close()

	reminders := []*entities.Reminder{}
	for rows.Next() {
		reminder := &entities.Reminder{}
		if err := rows.Scan(
			&reminder.ID,
			&reminder.UserID,
			&reminder.Title,
			&reminder.ScheduledFor,
			&reminder.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan reminder", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reminders", err)
	}

	return reminders, nil
}
