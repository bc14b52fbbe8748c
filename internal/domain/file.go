package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileParent identifies the entity type an attachment belongs to.
type FileParent string

const (
	FileParentProject FileParent = "project"
	FileParentTask    FileParent = "task"
)

// FileAttachment is a stored file tied to a project or task. Attachments are
// create/delete only; ownership never transfers.
type FileAttachment struct {
	ID           uuid.UUID  `json:"id"`
	ParentType   FileParent `json:"parent_type"`
	ParentID     uuid.UUID  `json:"parent_id"`
	ProjectID    uuid.UUID  `json:"project_id"`
	UploadedBy   uuid.UUID  `json:"uploaded_by"`
	OriginalName string     `json:"original_name"`
	StoredPath   string     `json:"-"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	CreatedAt    time.Time  `json:"created_at"`
}
