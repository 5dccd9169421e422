package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/entity"
	"ai-docchat-be/internal/repository/specification"
	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IIngestionService interface {
	Consume(ctx context.Context) error
}

type ingestionService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	chunkSize         int
}

func NewIngestionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	chunkSize int,
) IIngestionService {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &ingestionService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkSize:         chunkSize,
	}
}

func (is *ingestionService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage chunks and embeds one document. Chunks are persisted one by
// one in index order, so a mid-run provider failure leaves a valid prefix and
// the redelivered message resumes after the last stored chunk instead of
// re-embedding everything.
func (is *ingestionService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ingestion for DocumentId: %s", payload.DocumentId)

	uow := is.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	chunks, err := utils.SplitText(document.Content, is.chunkSize)
	if err != nil {
		log.Printf("[ERROR] Failed to split document %s: %v", payload.DocumentId, err)
		msg.Ack() // Permanent, retrying will not help
		return
	}

	// Resume point: chunks already stored from a previous partial run.
	existing, err := uow.DocumentChunkRepository().CountByDocumentId(ctx, document.Id)
	if err != nil {
		log.Printf("[ERROR] Failed to count chunks for document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if existing >= int64(len(chunks)) {
		log.Printf("[INFO] Document %s already ingested (%d chunks)", payload.DocumentId, existing)
		msg.Ack()
		return
	}
	if existing > 0 {
		log.Printf("[INFO] Resuming ingestion for document %s at chunk %d of %d", payload.DocumentId, existing, len(chunks))
	}

	for i := int(existing); i < len(chunks); i++ {
		res, err := is.embeddingProvider.Generate(ctx, chunks[i], embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}

		chunk := &entity.DocumentChunk{
			Id:             uuid.New(),
			Content:        chunks[i],
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     document.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		}

		if err := uow.DocumentChunkRepository().Create(ctx, chunk); err != nil {
			if apperror.IsDimensionMismatch(err) {
				// Provider/store misconfiguration, retrying would loop forever.
				log.Printf("[ERROR] Dimension mismatch for document %s: %v", payload.DocumentId, err)
				msg.Ack()
				return
			}
			log.Printf("[ERROR] Failed to persist chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}
	}

	log.Printf("[SUCCESS] Document ingested: %d chunks for DocumentId: %s", len(chunks), payload.DocumentId)
	msg.Ack()
}
