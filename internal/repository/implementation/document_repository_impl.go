package implementation

import (
	"context"
	"errors"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/mapper"
	"ai-docchat-be/internal/model"
	"ai-docchat-be/internal/repository/contract"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperror.NewStorageError("create document", err)
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&model.Document{}, id).Error; err != nil {
		return apperror.NewStorageError("delete document", err)
	}
	return nil
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.NewStorageError("find document", err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, apperror.NewStorageError("list documents", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentRepositoryImpl) FindAllWithChunkCounts(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) ([]*entity.Document, error) {
	type row struct {
		model.Document
		ChunkCount int64
	}
	var rows []row

	query := r.db.WithContext(ctx).
		Table("documents").
		Select(`documents.*, (SELECT COUNT(*) FROM document_chunks
			WHERE document_chunks.document_id = documents.id
			AND document_chunks.deleted_at IS NULL) AS chunk_count`).
		Where("documents.user_id = ?", userId).
		Where("documents.deleted_at IS NULL").
		Order("documents.created_at DESC")

	if workspaceId != nil {
		query = query.Where("documents.workspace_id = ?", *workspaceId)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperror.NewStorageError("list documents with chunk counts", err)
	}

	documents := make([]*entity.Document, len(rows))
	for i, row := range rows {
		doc := r.mapper.ToEntity(&row.Document)
		doc.ChunkCount = row.ChunkCount
		documents[i] = doc
	}
	return documents, nil
}

func (r *DocumentRepositoryImpl) DetachWorkspace(ctx context.Context, workspaceId uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("workspace_id = ?", workspaceId).
		Update("workspace_id", nil).Error
	if err != nil {
		return apperror.NewStorageError("detach workspace documents", err)
	}
	return nil
}

func (r *DocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Model(&model.Document{}).Count(&count).Error; err != nil {
		return 0, apperror.NewStorageError("count documents", err)
	}
	return count, nil
}
