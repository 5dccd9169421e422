package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentOwnedByUser scopes with an explicit table alias to avoid
// ambiguity when the chunk query joins documents.
type DocumentOwnedByUser struct {
	UserID uuid.UUID
}

func (s DocumentOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("documents.user_id = ?", s.UserID)
}

// InWorkspace restricts documents to one workspace.
type InWorkspace struct {
	WorkspaceID uuid.UUID
}

func (s InWorkspace) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("documents.workspace_id = ?", s.WorkspaceID)
}

// ByDocumentID filters chunks by their parent document.
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
