package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Kind        string         `gorm:"type:varchar(16);not null"` // PDF | TEXT
	Content     string         `gorm:"type:text"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	WorkspaceId *uuid.UUID     `gorm:"type:uuid;index"`
	Meta        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relationships
	Workspace *Workspace `gorm:"foreignKey:WorkspaceId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

func (Document) TableName() string {
	return "documents"
}
