package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pathwaysai/patient-copilot/internal/domain/entities"
	"github.com/pathwaysai/patient-copilot/internal/domain/repositories"
	apperrors "github.com/pathwaysai/patient-copilot/pkg/errors"
)

// UserService manages patient accounts.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates a new user. Email must not already be registered.
func (s *UserService) Register(ctx context.Context, email, fullName string) (*entities.User, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("email already registered")
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:        uuid.New().String(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}
