package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// FileRepository handles file attachment metadata
type FileRepository struct {
	db *DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, parent_type, parent_id, project_id, uploaded_by, original_name, stored_path, mime_type, size, created_at`

func scanFile(row pgx.Row) (*domain.FileAttachment, error) {
	var f domain.FileAttachment
	var parentType string
	err := row.Scan(
		&f.ID,
		&parentType,
		&f.ParentID,
		&f.ProjectID,
		&f.UploadedBy,
		&f.OriginalName,
		&f.StoredPath,
		&f.MimeType,
		&f.Size,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.ParentType = domain.FileParent(parentType)
	return &f, nil
}

// Create stores attachment metadata
func (r *FileRepository) Create(ctx context.Context, f *domain.FileAttachment) error {
	query := `
		INSERT INTO file_attachments (id, parent_type, parent_id, project_id, uploaded_by, original_name, stored_path, mime_type, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		f.ID,
		string(f.ParentType),
		f.ParentID,
		f.ProjectID,
		f.UploadedBy,
		f.OriginalName,
		f.StoredPath,
		f.MimeType,
		f.Size,
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file attachment: %w", err)
	}

	return nil
}

// GetByID retrieves attachment metadata by ID
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileAttachment, error) {
	query := `SELECT ` + fileColumns + ` FROM file_attachments WHERE id = $1`

	f, err := scanFile(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get file attachment: %w", err)
	}

	return f, nil
}

// ListByParent retrieves all attachments of a project or task
func (r *FileRepository) ListByParent(ctx context.Context, parentType domain.FileParent, parentID uuid.UUID) ([]domain.FileAttachment, error) {
	query := `SELECT ` + fileColumns + ` FROM file_attachments WHERE parent_type = $1 AND parent_id = $2 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, string(parentType), parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file attachments: %w", err)
	}
	defer rows.Close()

	var files []domain.FileAttachment
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file attachment: %w", err)
		}
		files = append(files, *f)
	}

	return files, nil
}

// Delete removes attachment metadata
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM file_attachments WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file attachment: %w", err)
	}

	return nil
}
