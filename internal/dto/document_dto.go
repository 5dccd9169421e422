package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest carries the multipart form fields next to the file
// itself. WorkspaceId is optional: documents can live directly under a user.
type UploadDocumentRequest struct {
	Title       string     `form:"title" validate:"required,max=255"`
	WorkspaceId *uuid.UUID `form:"workspace_id"`
}

type UploadDocumentResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"` // "queued" until the ingestion worker finishes
}

type DocumentItem struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Kind        string     `json:"kind"`
	WorkspaceId *uuid.UUID `json:"workspace_id,omitempty"`
	FileName    string     `json:"file_name,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
	ChunkCount  int64      `json:"chunk_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ListDocumentsResponse struct {
	Documents []DocumentItem `json:"documents"`
}
