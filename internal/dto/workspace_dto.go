package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type CreateWorkspaceResponse struct {
	Id uuid.UUID `json:"id"`
}

type WorkspaceItem struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ListWorkspacesResponse struct {
	Workspaces []WorkspaceItem `json:"workspaces"`
}
