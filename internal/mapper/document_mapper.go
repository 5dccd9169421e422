package mapper

import (
	"encoding/json"
	"time"

	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var meta entity.DocumentMeta
	if len(d.Meta) > 0 {
		_ = json.Unmarshal(d.Meta, &meta)
	}

	return &entity.Document{
		Id:          d.Id,
		Title:       d.Title,
		Kind:        d.Kind,
		Content:     d.Content,
		UserId:      d.UserId,
		WorkspaceId: d.WorkspaceId,
		Meta:        meta,
		CreatedAt:   d.CreatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	metaJson, _ := json.Marshal(d.Meta)

	return &model.Document{
		Id:          d.Id,
		Title:       d.Title,
		Kind:        d.Kind,
		Content:     d.Content,
		UserId:      d.UserId,
		WorkspaceId: d.WorkspaceId,
		Meta:        datatypes.JSON(metaJson),
		CreatedAt:   d.CreatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
