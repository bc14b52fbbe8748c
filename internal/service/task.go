package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/notify"
	"github.com/mandolon/rehome-platform-sub001/internal/policy"
)

// TaskRepository is the task persistence surface.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Task, error)
	Update(ctx context.Context, id uuid.UUID, update *domain.TaskUpdate) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsDescendant(ctx context.Context, taskID, candidate uuid.UUID) (bool, error)
}

// EventPublisher raises status-change events after a mutation commits.
type EventPublisher interface {
	Publish(ev notify.StatusChange)
}

// TaskService handles task operations
type TaskService struct {
	taskRepo    TaskRepository
	projectRepo ProjectRepository
	events      EventPublisher
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo TaskRepository, projectRepo ProjectRepository, events EventPublisher) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		events:      events,
	}
}

// Create creates a new task inside a project
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, projectID uuid.UUID, input domain.TaskCreate) (*domain.Task, error) {
	priority := domain.TaskPriorityMedium
	if input.Priority != "" {
		p, err := domain.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		priority = p
	}

	if input.ParentID != nil {
		parent, err := s.taskRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent task: %w", err)
		}
		if parent == nil || parent.ProjectID != projectID {
			return nil, fmt.Errorf("%w: parent task not in project", ErrInvalidInput)
		}
	}

	if err := s.checkAssignee(ctx, projectID, input.AssigneeID); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		ParentID:    input.ParentID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatusTodo,
		Priority:    priority,
		AssigneeID:  input.AssigneeID,
		CreatedBy:   actor.ID,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, projectID uuid.UUID, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	isMember, err := s.projectRepo.IsMember(ctx, projectID, *assigneeID)
	if err != nil {
		return fmt.Errorf("failed to check assignee membership: %w", err)
	}
	if !isMember {
		return fmt.Errorf("%w: assignee is not a project member", ErrInvalidInput)
	}
	return nil
}

// getInProject loads a task and verifies it belongs to the scoped project.
func (s *TaskService) getInProject(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil || task.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return task, nil
}

// GetByID retrieves a task within the scoped project
func (s *TaskService) GetByID(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	return s.getInProject(ctx, projectID, taskID)
}

// GetForComments loads a task by id alone and verifies the actor may see it.
// Used by the top-level task comment routes, which carry no project scope.
func (s *TaskService) GetForComments(ctx context.Context, actor domain.Actor, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}

	if !actor.Role.IsAdmin() {
		isMember, err := s.projectRepo.IsMember(ctx, task.ProjectID, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			// Non-members must not learn the task exists
			return nil, ErrNotFound
		}
	}

	return task, nil
}

// ListByProject retrieves all tasks of a project
func (s *TaskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error) {
	return s.taskRepo.ListByProject(ctx, projectID)
}

// Update updates a task. Reparenting onto the task itself or one of its
// descendants is rejected to keep the tree acyclic.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, projectID, taskID uuid.UUID, input domain.TaskUpdate) (*domain.Task, error) {
	task, err := s.getInProject(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyTask(actor, task) {
		return nil, ErrForbidden
	}

	if input.Priority != nil {
		if _, err := domain.ParseTaskPriority(*input.Priority); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if input.ParentID != nil {
		if *input.ParentID == taskID {
			return nil, ErrTaskCycle
		}
		parent, err := s.getInProject(ctx, projectID, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent task not in project", ErrInvalidInput)
		}
		isDescendant, err := s.taskRepo.IsDescendant(ctx, taskID, parent.ID)
		if err != nil {
			return nil, err
		}
		if isDescendant {
			return nil, ErrTaskCycle
		}
	}

	if err := s.checkAssignee(ctx, projectID, input.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, taskID, &input); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.getInProject(ctx, projectID, taskID)
}

// UpdateStatus transitions a task's status. The mutation commits first; then
// exactly one status-change event is published for the transition, addressed
// to the task's assignee and creator (minus the actor).
func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Actor, projectID, taskID uuid.UUID, statusStr string) (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(statusStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	task, err := s.getInProject(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyTask(actor, task) {
		return nil, ErrForbidden
	}

	oldStatus := task.Status
	if oldStatus == status {
		return task, nil
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.events.Publish(notify.StatusChange{
		Entity:     "task",
		EntityID:   task.ID,
		ProjectID:  task.ProjectID,
		Title:      task.Title,
		ActorID:    actor.ID,
		From:       string(oldStatus),
		To:         string(status),
		Recipients: interestedParties(task.CreatedBy, task.AssigneeID, actor.ID),
	})

	task.Status = status
	return task, nil
}

// Delete deletes a task
func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, projectID, taskID uuid.UUID) error {
	task, err := s.getInProject(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if !policy.CanModifyTask(actor, task) {
		return ErrForbidden
	}

	return s.taskRepo.Delete(ctx, taskID)
}

// interestedParties computes status-change recipients: the creator and the
// assignee, excluding whoever made the change.
func interestedParties(createdBy uuid.UUID, assigneeID *uuid.UUID, actorID uuid.UUID) []uuid.UUID {
	var recipients []uuid.UUID
	if createdBy != actorID {
		recipients = append(recipients, createdBy)
	}
	if assigneeID != nil && *assigneeID != actorID && *assigneeID != createdBy {
		recipients = append(recipients, *assigneeID)
	}
	return recipients
}
