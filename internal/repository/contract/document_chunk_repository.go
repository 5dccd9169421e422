package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps DocumentChunk with its similarity score and the
// parent document's title for source labeling.
type ScoredDocumentChunk struct {
	Chunk         *entity.DocumentChunk
	DocumentTitle string
	Similarity    float64 // 1 - cosine distance; may be <= 0, the store does not filter
}

type DocumentChunkRepository interface {
	// Create atomically persists content + embedding + document linkage.
	// Fails with StorageError when the parent document does not exist and
	// DimensionMismatchError when the vector length is wrong.
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns up to limit chunks belonging to the
	// owner's documents (optionally restricted to one workspace), ranked by
	// descending cosine similarity, ties broken by most recent chunk first.
	// Unknown owners yield an empty slice, not an error.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, workspaceId *uuid.UUID) ([]*ScoredDocumentChunk, error)
}
