package retriever

import (
	"context"
	"errors"
	"testing"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/websearch"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockEmbeddingProvider struct {
	mock.Mock
}

func (m *mockEmbeddingProvider) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	args := m.Called(ctx, text, taskType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*embedding.EmbeddingResponse), args.Error(1)
}

func (m *mockEmbeddingProvider) Dimension() int {
	return 3
}

type mockChunkSearcher struct {
	mock.Mock
}

func (m *mockChunkSearcher) SearchSimilar(ctx context.Context, emb []float32, limit int, userId uuid.UUID, workspaceId *uuid.UUID) ([]ScoredChunk, error) {
	args := m.Called(ctx, emb, limit, userId, workspaceId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ScoredChunk), args.Error(1)
}

type mockSearchProvider struct {
	mock.Mock
}

func (m *mockSearchProvider) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]websearch.Result), args.Error(1)
}

func embeddingResponse(values ...float32) *embedding.EmbeddingResponse {
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = values
	return res
}

func newTestRetriever(ep embedding.EmbeddingProvider, cs ChunkSearcher, sp websearch.SearchProvider, cfg Config) *Retriever {
	return New(ep, cs, sp, cfg, logger.NewNoopLogger())
}

func TestRetrieveDocumentResults(t *testing.T) {
	userId := uuid.New()
	vector := []float32{0.1, 0.2, 0.3}

	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, "what is go", embedding.TaskRetrievalQuery).
		Return(embeddingResponse(vector...), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, vector, 5, userId, (*uuid.UUID)(nil)).
		Return([]ScoredChunk{
			{Content: "go is a language", DocumentTitle: "Go Intro", Similarity: 0.92},
			{Content: "go has goroutines", DocumentTitle: "Go Intro", Similarity: 0.88},
		}, nil)

	r := newTestRetriever(ep, cs, nil, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "what is go", userId, nil, false)

	assert.NoError(t, err)
	assert.False(t, set.Degraded)
	assert.Len(t, set.Results, 2)
	assert.Equal(t, OriginDocumentChunk, set.Results[0].Origin)
	assert.Equal(t, "Go Intro", set.Results[0].Source)
	assert.Equal(t, 0.92, set.Results[0].Score)
	ep.AssertExpectations(t)
	cs.AssertExpectations(t)
}

func TestRetrieveEmbedFailureAborts(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.NewProviderError("gemini", "embed", errors.New("quota exceeded")))

	cs := new(mockChunkSearcher)

	r := newTestRetriever(ep, cs, nil, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "anything", uuid.New(), nil, false)

	assert.Nil(t, set)
	assert.True(t, apperror.IsProviderError(err))
	cs.AssertNotCalled(t, "SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRetrieveStorageFailurePropagates(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(embeddingResponse(0.1), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.NewStorageError("search", errors.New("connection refused")))

	r := newTestRetriever(ep, cs, nil, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "anything", uuid.New(), nil, false)

	assert.Nil(t, set)
	assert.True(t, apperror.IsStorageError(err))
}

func TestRetrieveWebAugmentation(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(embeddingResponse(0.1), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredChunk{
			{Content: "doc chunk", DocumentTitle: "Doc", Similarity: 0.8},
		}, nil)

	sp := new(mockSearchProvider)
	sp.On("Search", mock.Anything, "latest go release").
		Return([]websearch.Result{
			{URL: "https://go.dev/a", Title: "A", Snippet: "snippet a"},
			{URL: "https://go.dev/b", Title: "B", Snippet: "snippet b"},
			{URL: "https://go.dev/c", Title: "C", Snippet: "snippet c"},
			{URL: "https://go.dev/d", Title: "D", Snippet: "snippet d"},
		}, nil)

	r := newTestRetriever(ep, cs, sp, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "latest go release", uuid.New(), nil, true)

	assert.NoError(t, err)
	assert.False(t, set.Degraded)
	// 1 document result, then at most 3 web results, documents first.
	assert.Len(t, set.Results, 4)
	assert.Equal(t, OriginDocumentChunk, set.Results[0].Origin)
	for _, res := range set.Results[1:] {
		assert.Equal(t, OriginWebPage, res.Origin)
	}
	assert.Equal(t, "https://go.dev/a", set.Results[1].Source)
	assert.Greater(t, set.Results[1].Score, set.Results[2].Score)
}

func TestRetrieveWebFailureDegrades(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(embeddingResponse(0.1), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredChunk{
			{Content: "doc chunk", DocumentTitle: "Doc", Similarity: 0.8},
		}, nil)

	sp := new(mockSearchProvider)
	sp.On("Search", mock.Anything, mock.Anything).
		Return(nil, apperror.NewProviderError("google-search", "search", errors.New("timeout")))

	r := newTestRetriever(ep, cs, sp, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "anything", uuid.New(), nil, true)

	assert.NoError(t, err)
	assert.True(t, set.Degraded)
	assert.Len(t, set.Results, 1)
	assert.Equal(t, OriginDocumentChunk, set.Results[0].Origin)
}

func TestRetrieveWebDisabledByFlag(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(embeddingResponse(0.1), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredChunk{}, nil)

	sp := new(mockSearchProvider)

	r := newTestRetriever(ep, cs, sp, Config{MinSimilarity: -1})

	set, err := r.Retrieve(context.Background(), "anything", uuid.New(), nil, false)

	assert.NoError(t, err)
	assert.False(t, set.Degraded)
	assert.Empty(t, set.Results)
	sp.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestRetrieveMinSimilarityFilters(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(embeddingResponse(0.1), nil)

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredChunk{
			{Content: "relevant", DocumentTitle: "Doc", Similarity: 0.9},
			{Content: "marginal", DocumentTitle: "Doc", Similarity: 0.3},
		}, nil)

	r := newTestRetriever(ep, cs, nil, Config{MinSimilarity: 0.5})

	set, err := r.Retrieve(context.Background(), "anything", uuid.New(), nil, false)

	assert.NoError(t, err)
	assert.Len(t, set.Results, 1)
	assert.Equal(t, "relevant", set.Results[0].Content)
}

func TestRetrieveCachesQuestionEmbedding(t *testing.T) {
	ep := new(mockEmbeddingProvider)
	ep.On("Generate", mock.Anything, "repeated question", embedding.TaskRetrievalQuery).
		Return(embeddingResponse(0.1), nil).Once()

	cs := new(mockChunkSearcher)
	cs.On("SearchSimilar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]ScoredChunk{}, nil)

	r := newTestRetriever(ep, cs, nil, Config{MinSimilarity: -1})

	_, err := r.Retrieve(context.Background(), "repeated question", uuid.New(), nil, false)
	assert.NoError(t, err)
	_, err = r.Retrieve(context.Background(), "repeated question", uuid.New(), nil, false)
	assert.NoError(t, err)

	ep.AssertExpectations(t)
	ep.AssertNumberOfCalls(t, "Generate", 1)
}
