package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/extractor"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest, fileName string, mimeType string, content []byte) (*dto.UploadDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) (*dto.ListDocumentsResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Upload extracts text synchronously so invalid files fail the request, then
// hands chunking and embedding to the ingestion worker via the event bus.
func (s *documentService) Upload(ctx context.Context, userId uuid.UUID, req *dto.UploadDocumentRequest, fileName string, mimeType string, content []byte) (*dto.UploadDocumentResponse, error) {
	if len(content) == 0 {
		return nil, apperror.NewValidationError("uploaded file is empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A workspace-scoped document must land in a workspace the caller owns.
	if req.WorkspaceId != nil {
		workspace, err := uow.WorkspaceRepository().FindOne(ctx,
			specification.ByID{ID: *req.WorkspaceId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if workspace == nil {
			return nil, apperror.NewUnauthorizedError("workspace not found or not owned by user")
		}
	}

	kind, err := extractor.KindForMime(mimeType)
	if err != nil {
		return nil, err
	}

	text, err := extractor.Extract(content, kind)
	if err != nil {
		return nil, err
	}

	document := entity.Document{
		Id:          uuid.New(),
		Title:       req.Title,
		Kind:        kind,
		Content:     text,
		UserId:      userId,
		WorkspaceId: req.WorkspaceId,
		Meta: entity.DocumentMeta{
			FileName: fileName,
			FileSize: int64(len(content)),
			MimeType: mimeType,
		},
		CreatedAt: time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIngestDocumentMessage{
		DocumentId: document.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.UploadDocumentResponse{
		Id:     document.Id,
		Status: "queued",
	}, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) (*dto.ListDocumentsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	documents, err := uow.DocumentRepository().FindAllWithChunkCounts(ctx, userId, workspaceId)
	if err != nil {
		return nil, err
	}

	res := &dto.ListDocumentsResponse{Documents: make([]dto.DocumentItem, 0, len(documents))}
	for _, doc := range documents {
		res.Documents = append(res.Documents, dto.DocumentItem{
			Id:          doc.Id,
			Title:       doc.Title,
			Kind:        doc.Kind,
			WorkspaceId: doc.WorkspaceId,
			FileName:    doc.Meta.FileName,
			FileSize:    doc.Meta.FileSize,
			ChunkCount:  doc.ChunkCount,
			CreatedAt:   doc.CreatedAt,
		})
	}
	return res, nil
}

// Delete removes a document and its chunks in one transaction. Deleting
// someone else's document answers the same as deleting a missing one.
func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return apperror.NewUnauthorizedError("document not found or not owned by user")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.NewStorageError("begin delete document", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return apperror.NewStorageError("commit delete document", err)
	}
	return nil
}
