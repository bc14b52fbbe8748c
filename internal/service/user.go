package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// UserService handles user administration
type UserService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List retrieves all users (admin only, enforced at the route)
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input domain.UserProfileUpdate) (*domain.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, &input); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(ctx, userID)
}

// UpdateRole changes a user's role (admin only, enforced at the route). The
// role string is parsed here so free-form values never reach storage.
func (s *UserService) UpdateRole(ctx context.Context, userID uuid.UUID, input domain.UserRoleUpdate) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role, input.TeamType); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.GetByID(ctx, userID)
}

// Deactivate soft-deletes a user (admin only, enforced at the route)
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	return s.userRepo.SoftDelete(ctx, userID)
}
