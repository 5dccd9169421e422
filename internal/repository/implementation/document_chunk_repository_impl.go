package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const defaultTopK = 5

type DocumentChunkRepositoryImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB, dimension int) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// checkDimension aborts instead of letting pgvector truncate or pad.
func (r *DocumentChunkRepositoryImpl) checkDimension(vec []float32) error {
	if len(vec) != r.dimension {
		return &apperror.DimensionMismatchError{Want: r.dimension, Got: len(vec)}
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	if err := r.checkDimension(chunk.EmbeddingValue); err != nil {
		return err
	}

	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.NewStorageError("create chunk",
				fmt.Errorf("parent document %s does not exist: %w", chunk.DocumentId, err))
		}
		return apperror.NewStorageError("create chunk", err)
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentChunkRepositoryImpl) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var count int64
	query := specification.ByDocumentID{DocumentID: documentId}.Apply(r.db.WithContext(ctx))
	if err := query.Model(&model.DocumentChunk{}).Count(&count).Error; err != nil {
		return 0, apperror.NewStorageError("count chunks", err)
	}
	return count, nil
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	query := specification.ByDocumentID{DocumentID: documentId}.Apply(r.db.WithContext(ctx))
	if err := query.Delete(&model.DocumentChunk{}).Error; err != nil {
		return apperror.NewStorageError("delete chunks", err)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	var models []*model.DocumentChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.NewStorageError("list chunks", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Model(&model.DocumentChunk{}).Count(&count).Error; err != nil {
		return 0, apperror.NewStorageError("count chunks", err)
	}
	return count, nil
}

// SearchSimilarWithScore ranks the tenant's chunks by cosine similarity.
// pgvector's <=> operator is cosine distance, so similarity = 1 - distance.
// The owner predicate is part of the query itself via the documents join;
// there is no post-fetch filtering.
func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, workspaceId *uuid.UUID) ([]*contract.ScoredDocumentChunk, error) {
	if err := r.checkDimension(embedding); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopK
	}

	type result struct {
		model.DocumentChunk
		DocumentTitle string
		Similarity    float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, documents.title AS document_title, 1 - (embedding_value <=> ?) AS similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("document_chunks.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL")

	// Owner scope is part of the query itself, never a post-fetch filter.
	query = specification.DocumentOwnedByUser{UserID: userId}.Apply(query)
	if workspaceId != nil {
		query = specification.InWorkspace{WorkspaceID: *workspaceId}.Apply(query)
	}

	err := query.
		Order("similarity DESC, document_chunks.created_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, apperror.NewStorageError("similarity search", err)
	}

	scored := make([]*contract.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredDocumentChunk{
			Chunk:         r.mapper.ToEntity(&res.DocumentChunk),
			DocumentTitle: res.DocumentTitle,
			Similarity:    res.Similarity,
		}
	}
	return scored, nil
}
