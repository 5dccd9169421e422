package service

import (
	"context"

	"ai-docchat-be/internal/repository/unitofwork"
	"ai-docchat-be/pkg/rag/retriever"

	"github.com/google/uuid"
)

// gormChunkSearcher adapts the chunk repository to the retriever's searcher
// contract so the retriever stays free of persistence types.
type gormChunkSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewChunkSearcher(uowFactory unitofwork.RepositoryFactory) retriever.ChunkSearcher {
	return &gormChunkSearcher{uowFactory: uowFactory}
}

func (s *gormChunkSearcher) SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, workspaceId *uuid.UUID) ([]retriever.ScoredChunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(ctx, embedding, limit, userId, workspaceId)
	if err != nil {
		return nil, err
	}

	results := make([]retriever.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		results = append(results, retriever.ScoredChunk{
			Content:       sc.Chunk.Content,
			DocumentTitle: sc.DocumentTitle,
			Similarity:    sc.Similarity,
		})
	}
	return results, nil
}
