package resource

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// FileResource is the API representation of a file attachment. The stored
// path never leaves the server.
type FileResource struct {
	ID           uuid.UUID `json:"id"`
	ParentType   string    `json:"parent_type"`
	ParentID     uuid.UUID `json:"parent_id"`
	ProjectID    uuid.UUID `json:"project_id"`
	UploadedBy   uuid.UUID `json:"uploaded_by"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewFile builds a FileResource from a domain attachment.
func NewFile(f *domain.FileAttachment) *FileResource {
	return &FileResource{
		ID:           f.ID,
		ParentType:   string(f.ParentType),
		ParentID:     f.ParentID,
		ProjectID:    f.ProjectID,
		UploadedBy:   f.UploadedBy,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}

// NewFileList builds resources for a slice of attachments.
func NewFileList(files []domain.FileAttachment) []*FileResource {
	out := make([]*FileResource, 0, len(files))
	for i := range files {
		out = append(out, NewFile(&files[i]))
	}
	return out
}
