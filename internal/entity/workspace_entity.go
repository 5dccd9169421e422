package entity

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
