package service

import (
	"context"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/apperror"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.CreateWorkspaceResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.ListWorkspacesResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type workspaceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewWorkspaceService(uowFactory unitofwork.RepositoryFactory) IWorkspaceService {
	return &workspaceService{
		uowFactory: uowFactory,
	}
}

func (s *workspaceService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateWorkspaceRequest) (*dto.CreateWorkspaceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspace := entity.Workspace{
		Id:        uuid.New(),
		Name:      req.Name,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.WorkspaceRepository().Create(ctx, &workspace); err != nil {
		return nil, err
	}

	return &dto.CreateWorkspaceResponse{Id: workspace.Id}, nil
}

func (s *workspaceService) List(ctx context.Context, userId uuid.UUID) (*dto.ListWorkspacesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspaces, err := uow.WorkspaceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ListWorkspacesResponse{Workspaces: make([]dto.WorkspaceItem, 0, len(workspaces))}
	for _, ws := range workspaces {
		res.Workspaces = append(res.Workspaces, dto.WorkspaceItem{
			Id:        ws.Id,
			Name:      ws.Name,
			CreatedAt: ws.CreatedAt,
		})
	}
	return res, nil
}

func (s *workspaceService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	workspace, err := uow.WorkspaceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if workspace == nil {
		return apperror.NewUnauthorizedError("workspace not found or not owned by user")
	}

	// Soft delete keeps the workspace row, so its documents must be
	// re-scoped to the user explicitly or they stay pointing at a
	// deleted workspace.
	if err := uow.Begin(ctx); err != nil {
		return apperror.NewStorageError("begin delete workspace", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().DetachWorkspace(ctx, id); err != nil {
		return err
	}
	if err := uow.WorkspaceRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return apperror.NewStorageError("commit delete workspace", err)
	}
	return nil
}
