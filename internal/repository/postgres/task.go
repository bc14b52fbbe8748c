package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// TaskRepository handles task data access
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, project_id, parent_id, title, description, status, priority, assignee_id, created_by, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status, priority string
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.ParentID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&t.AssigneeID,
		&t.CreatedBy,
		&t.DueDate,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	return &t, nil
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, parent_id, title, description, status, priority, assignee_id, created_by, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		task.ID,
		task.ProjectID,
		task.ParentID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.AssigneeID,
		task.CreatedBy,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListByProject retrieves all tasks of a project
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// ListOverdue retrieves unfinished tasks whose due date has passed
func (r *TaskRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date IS NOT NULL AND due_date < $1 AND status <> 'done'
		ORDER BY due_date
	`

	rows, err := r.db.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, update *domain.TaskUpdate) error {
	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    priority = COALESCE($4, priority),
		    parent_id = COALESCE($5, parent_id),
		    assignee_id = COALESCE($6, assignee_id),
		    due_date = COALESCE($7, due_date),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id,
		update.Title,
		update.Description,
		update.Priority,
		update.ParentID,
		update.AssigneeID,
		update.DueDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// UpdateStatus sets a task's status
func (r *TaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	query := `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// IsDescendant reports whether candidate is in the subtree rooted at taskID.
// Used to reject reparenting a task onto one of its own descendants.
func (r *TaskRepository) IsDescendant(ctx context.Context, taskID, candidate uuid.UUID) (bool, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM tasks WHERE parent_id = $1
			UNION ALL
			SELECT t.id FROM tasks t INNER JOIN subtree s ON t.parent_id = s.id
		)
		SELECT EXISTS(SELECT 1 FROM subtree WHERE id = $2)
	`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, taskID, candidate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check task subtree: %w", err)
	}

	return exists, nil
}
