package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/policy"
)

// ProjectRepository is the project persistence surface.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Project, error)
	ListAll(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.ProjectUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *domain.ProjectMember) error
	GetMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMember, error)
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	CountTasks(ctx context.Context, projectID uuid.UUID) (int, error)
}

// ProjectService handles project operations
type ProjectService struct {
	projectRepo ProjectRepository
	userRepo    UserRepository
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ProjectRepository, userRepo UserRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, userRepo: userRepo}
}

// memberRole returns the actor's membership role in the project, or empty
// when the actor is not a member.
func (s *ProjectService) memberRole(ctx context.Context, projectID uuid.UUID, actor domain.Actor) (domain.MemberRole, error) {
	member, err := s.projectRepo.GetMember(ctx, projectID, actor.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return "", nil
	}
	return member.Role, nil
}

// Create creates a new project and adds the creator as its manager
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, input domain.ProjectCreate) (*domain.Project, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Status:      domain.ProjectStatusPlanned,
		Address:     input.Address,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	member := &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    actor.ID,
		Role:      domain.MemberRoleManager,
		CreatedAt: now,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return project, nil
}

// List retrieves the projects visible to the actor: everything for admins,
// memberships for everyone else.
func (s *ProjectService) List(ctx context.Context, actor domain.Actor) ([]domain.Project, error) {
	if actor.Role.IsAdmin() {
		return s.projectRepo.ListAll(ctx)
	}
	return s.projectRepo.ListByUserID(ctx, actor.ID)
}

// GetByID retrieves a project. The scope guard has already verified
// membership, so this is a plain load.
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

// CountTasks returns the number of tasks in a project
func (s *ProjectService) CountTasks(ctx context.Context, projectID uuid.UUID) (int, error) {
	return s.projectRepo.CountTasks(ctx, projectID)
}

// Update updates a project
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, projectID uuid.UUID, input domain.ProjectUpdate) (*domain.Project, error) {
	memberRole, err := s.memberRole(ctx, projectID, actor)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageProject(actor, memberRole) {
		return nil, ErrForbidden
	}

	if input.Status != nil {
		if _, err := domain.ParseProjectStatus(*input.Status); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.projectRepo.Update(ctx, projectID, &input); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetByID(ctx, projectID)
}

// Delete deletes a project
func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, projectID uuid.UUID) error {
	memberRole, err := s.memberRole(ctx, projectID, actor)
	if err != nil {
		return err
	}
	if !policy.CanManageProject(actor, memberRole) {
		return ErrForbidden
	}

	return s.projectRepo.Delete(ctx, projectID)
}

// ListMembers retrieves all members of a project
func (s *ProjectService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMember, error) {
	return s.projectRepo.ListMembers(ctx, projectID)
}

// AddMember adds a user to a project
func (s *ProjectService) AddMember(ctx context.Context, actor domain.Actor, projectID uuid.UUID, input domain.ProjectMemberAdd) error {
	memberRole, err := s.memberRole(ctx, projectID, actor)
	if err != nil {
		return err
	}
	if !policy.CanManageProject(actor, memberRole) {
		return ErrForbidden
	}

	role, err := domain.ParseMemberRole(input.Role)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user does not exist", ErrInvalidInput)
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    input.UserID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	return s.projectRepo.AddMember(ctx, member)
}

// RemoveMember removes a user from a project. The project creator cannot be
// removed.
func (s *ProjectService) RemoveMember(ctx context.Context, actor domain.Actor, projectID, userID uuid.UUID) error {
	memberRole, err := s.memberRole(ctx, projectID, actor)
	if err != nil {
		return err
	}
	if !policy.CanManageProject(actor, memberRole) {
		return ErrForbidden
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project != nil && project.CreatedBy == userID {
		return fmt.Errorf("%w: cannot remove the project creator", ErrInvalidInput)
	}

	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

// IsMember checks if a user is a member of a project
func (s *ProjectService) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return s.projectRepo.IsMember(ctx, projectID, userID)
}
