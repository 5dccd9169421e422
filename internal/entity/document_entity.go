package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentMeta holds upload metadata carried for listing.
type DocumentMeta struct {
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// Document is one uploaded source. Owned exclusively by its user and
// optionally scoped to a workspace. Content holds the extracted text so
// ingestion can re-process without the original file.
type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string
	Kind        string // PDF | TEXT
	Content     string
	UserId      uuid.UUID  `gorm:"type:uuid;index"`
	WorkspaceId *uuid.UUID `gorm:"type:uuid;index"`
	Meta        DocumentMeta
	ChunkCount  int64 // populated on listing, not persisted
	CreatedAt   time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
