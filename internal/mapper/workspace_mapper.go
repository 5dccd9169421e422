package mapper

import (
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"gorm.io/gorm"
)

type WorkspaceMapper struct{}

func NewWorkspaceMapper() *WorkspaceMapper {
	return &WorkspaceMapper{}
}

func (m *WorkspaceMapper) ToEntity(w *model.Workspace) *entity.Workspace {
	if w == nil {
		return nil
	}

	var deletedAt *time.Time
	if w.DeletedAt.Valid {
		t := w.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.Workspace{
		Id:        w.Id,
		Name:      w.Name,
		UserId:    w.UserId,
		CreatedAt: w.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: w.DeletedAt.Valid,
	}
}

func (m *WorkspaceMapper) ToModel(w *entity.Workspace) *model.Workspace {
	if w == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if w.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *w.DeletedAt, Valid: true}
	} else if w.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Workspace{
		Id:        w.Id,
		Name:      w.Name,
		UserId:    w.UserId,
		CreatedAt: w.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *WorkspaceMapper) ToEntities(workspaces []*model.Workspace) []*entity.Workspace {
	entities := make([]*entity.Workspace, len(workspaces))
	for i, w := range workspaces {
		entities[i] = m.ToEntity(w)
	}
	return entities
}
