package contract

import (
	"context"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	// FindAllWithChunkCounts lists a tenant's documents newest first with the
	// number of persisted chunks attached to each.
	FindAllWithChunkCounts(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) ([]*entity.Document, error)
	// DetachWorkspace clears workspace_id on every document in the workspace.
	// Needed on workspace deletion: deletes are soft, so the FK's SET NULL
	// never fires on its own.
	DetachWorkspace(ctx context.Context, workspaceId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
