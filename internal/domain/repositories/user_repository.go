package repositories

import (
	"context"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// ReminderRepository defines the interface for reminder operations
type ReminderRepository interface {
	// Create creates a new reminder
	Create(ctx context.Context, reminder *entities.Reminder) error

	// ListByUser retrieves all reminders for a user
	ListByUser(ctx context.Context, userID string) ([]*entities.Reminder, error)
}
