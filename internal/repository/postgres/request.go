package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// RequestRepository handles request data access
type RequestRepository struct {
	db *DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, project_id, title, description, status, created_by, assignee_id, created_at, updated_at`

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var req domain.Request
	var status string
	err := row.Scan(
		&req.ID,
		&req.ProjectID,
		&req.Title,
		&req.Description,
		&status,
		&req.CreatedBy,
		&req.AssigneeID,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatus(status)
	return &req, nil
}

// Create creates a new request
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO requests (id, project_id, title, description, status, created_by, assignee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		req.ID,
		req.ProjectID,
		req.Title,
		req.Description,
		string(req.Status),
		req.CreatedBy,
		req.AssigneeID,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return req, nil
}

// ListByProject retrieves all requests of a project
func (r *RequestRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *req)
	}

	return requests, nil
}

// Update updates a request
func (r *RequestRepository) Update(ctx context.Context, id uuid.UUID, update *domain.RequestUpdate) error {
	query := `
		UPDATE requests
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    assignee_id = COALESCE($4, assignee_id),
		    updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, update.Title, update.Description, update.AssigneeID)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}

	return nil
}

// UpdateStatus sets a request's status
func (r *RequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE requests SET status = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	return nil
}

// Delete deletes a request
func (r *RequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM requests WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	return nil
}
