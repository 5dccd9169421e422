package dto

import "github.com/google/uuid"

// PublishIngestDocumentMessage is the payload published to the ingestion
// topic after a document upload. The worker re-reads everything else from
// the database, so redelivery is safe.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
