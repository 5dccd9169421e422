package dto

import "github.com/google/uuid"

type AskRequest struct {
	Question     string     `json:"question" validate:"required"`
	WorkspaceId  *uuid.UUID `json:"workspace_id"`
	UseWebSearch bool       `json:"use_web_search"`
}

// AskResponse reports the generated answer plus provenance. Degraded is true
// when web augmentation was requested but unavailable, so the client can tell
// the user the answer is document-only.
type AskResponse struct {
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
	Degraded bool     `json:"degraded"`
}
