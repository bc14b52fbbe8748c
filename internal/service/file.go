package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/policy"
)

// FileRepository is the attachment metadata persistence surface.
type FileRepository interface {
	Create(ctx context.Context, f *domain.FileAttachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileAttachment, error)
	ListByParent(ctx context.Context, parentType domain.FileParent, parentID uuid.UUID) ([]domain.FileAttachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlobStore persists attachment bytes.
type BlobStore interface {
	Save(originalName string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// FileService handles file attachments on projects and tasks
type FileService struct {
	fileRepo    FileRepository
	projectRepo ProjectRepository
	taskRepo    TaskRepository
	store       BlobStore
}

// NewFileService creates a new file service
func NewFileService(fileRepo FileRepository, projectRepo ProjectRepository, taskRepo TaskRepository, store BlobStore) *FileService {
	return &FileService{
		fileRepo:    fileRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		store:       store,
	}
}

// checkParent verifies the attachment parent lives inside the scoped project.
// A task in another project is reported as missing, same as a direct lookup.
func (s *FileService) checkParent(ctx context.Context, parentType domain.FileParent, parentID, projectID uuid.UUID) error {
	switch parentType {
	case domain.FileParentProject:
		if parentID != projectID {
			return ErrNotFound
		}
	case domain.FileParentTask:
		task, err := s.taskRepo.GetByID(ctx, parentID)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}
		if task == nil || task.ProjectID != projectID {
			return ErrNotFound
		}
	default:
		return fmt.Errorf("%w: unknown parent type %q", ErrInvalidInput, parentType)
	}
	return nil
}

// Upload stores the file bytes and records metadata
func (s *FileService) Upload(ctx context.Context, actor domain.Actor, parentType domain.FileParent, parentID, projectID uuid.UUID, originalName, mimeType string, r io.Reader) (*domain.FileAttachment, error) {
	if err := s.checkParent(ctx, parentType, parentID, projectID); err != nil {
		return nil, err
	}

	path, size, err := s.store.Save(originalName, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	f := &domain.FileAttachment{
		ID:           uuid.New(),
		ParentType:   parentType,
		ParentID:     parentID,
		ProjectID:    projectID,
		UploadedBy:   actor.ID,
		OriginalName: originalName,
		StoredPath:   path,
		MimeType:     mimeType,
		Size:         size,
		CreatedAt:    time.Now(),
	}

	if err := s.fileRepo.Create(ctx, f); err != nil {
		if removeErr := s.store.Remove(path); removeErr != nil {
			log.Warn().Err(removeErr).Str("path", path).Msg("failed to clean up orphaned upload")
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	return f, nil
}

// ListByParent retrieves the attachments of the scoped project or one of its
// tasks
func (s *FileService) ListByParent(ctx context.Context, projectID uuid.UUID, parentType domain.FileParent, parentID uuid.UUID) ([]domain.FileAttachment, error) {
	if err := s.checkParent(ctx, parentType, parentID, projectID); err != nil {
		return nil, err
	}
	return s.fileRepo.ListByParent(ctx, parentType, parentID)
}

// Open returns the metadata and a reader for an attachment in the scoped
// project
func (s *FileService) Open(ctx context.Context, projectID, fileID uuid.UUID) (*domain.FileAttachment, io.ReadCloser, error) {
	f, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil || f.ProjectID != projectID {
		return nil, nil, ErrNotFound
	}

	rc, err := s.store.Open(f.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, rc, nil
}

// Delete removes an attachment: metadata first, then bytes
func (s *FileService) Delete(ctx context.Context, actor domain.Actor, projectID, fileID uuid.UUID) error {
	f, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	if f == nil || f.ProjectID != projectID {
		return ErrNotFound
	}

	member, err := s.projectRepo.GetMember(ctx, projectID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}
	var memberRole domain.MemberRole
	if member != nil {
		memberRole = member.Role
	}

	if !policy.CanDeleteFile(actor, f, memberRole) {
		return ErrForbidden
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file metadata: %w", err)
	}
	if err := s.store.Remove(f.StoredPath); err != nil {
		log.Warn().Err(err).Str("path", f.StoredPath).Msg("failed to remove stored file")
	}

	return nil
}
