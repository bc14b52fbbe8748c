package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mandolon/rehome-platform-sub001/internal/api/middleware"
	"github.com/mandolon/rehome-platform-sub001/internal/api/resource"
	"github.com/mandolon/rehome-platform-sub001/internal/api/response"
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
	"github.com/mandolon/rehome-platform-sub001/internal/service"
)

// FileHandler handles attachment endpoints
type FileHandler struct {
	fileService   *service.FileService
	maxUploadSize int64
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService *service.FileService, maxUploadSize int64) *FileHandler {
	return &FileHandler{fileService: fileService, maxUploadSize: maxUploadSize}
}

// Upload stores a multipart file against the project or one of its tasks.
// Form fields: file (required), parent_type (project|task, default project),
// parent_id (required for task parents).
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.BadRequest(w, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	parentType := domain.FileParentProject
	parentID := projectID
	if raw := r.FormValue("parent_type"); raw != "" && raw != string(domain.FileParentProject) {
		if raw != string(domain.FileParentTask) {
			response.BadRequest(w, "invalid parent_type")
			return
		}
		parentType = domain.FileParentTask
		parentID, err = uuid.Parse(r.FormValue("parent_id"))
		if err != nil {
			response.BadRequest(w, "invalid parent_id")
			return
		}
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment, err := h.fileService.Upload(r.Context(), actor, parentType, parentID, projectID, header.Filename, mimeType, file)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.Created(w, resource.NewFile(attachment))
}

// List returns the project's attachments
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}

	parentType := domain.FileParentProject
	parentID := projectID
	if raw := r.URL.Query().Get("task_id"); raw != "" {
		taskID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid task_id")
			return
		}
		parentType = domain.FileParentTask
		parentID = taskID
	}

	files, err := h.fileService.ListByParent(r.Context(), projectID, parentType, parentID)
	if err != nil {
		serviceError(w, err)
		return
	}

	response.OK(w, resource.NewFileList(files))
}

// Download streams the file bytes back to the caller
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}
	fileID, ok := urlUUID(w, r, "fileID")
	if !ok {
		return
	}

	attachment, rc, err := h.fileService.Open(r.Context(), projectID, fileID)
	if err != nil {
		serviceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachment.OriginalName+`"`)
	if _, err := io.Copy(w, rc); err != nil {
		log.Warn().Err(err).Str("file_id", fileID.String()).Msg("download interrupted")
	}
}

// Delete removes an attachment and its stored bytes
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	projectID, ok := middleware.GetProjectID(r.Context())
	if !ok {
		response.BadRequest(w, "missing project scope")
		return
	}
	fileID, ok := urlUUID(w, r, "fileID")
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), actor, projectID, fileID); err != nil {
		serviceError(w, err)
		return
	}

	response.NoContent(w)
}
