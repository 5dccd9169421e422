package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is a contiguous slice of a document's extracted text plus
// its embedding vector. Chunks are immutable once created and only removed
// via parent document deletion. A chunk is never persisted without a
// successfully computed embedding.
type DocumentChunk struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Content        string
	EmbeddingValue []float32
	DocumentId     uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex     int
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
