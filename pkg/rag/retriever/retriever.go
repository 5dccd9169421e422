package retriever

import (
	"context"
	"time"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/embedding"
	"ai-docchat-be/pkg/websearch"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Result origins. Document results always precede web results.
const (
	OriginDocumentChunk = "document-chunk"
	OriginWebPage       = "web-page"
)

// webResultLimit bounds web augmentation regardless of provider output size.
const webResultLimit = 3

// RetrievalResult is one ranked snippet, document- or web-derived.
// Ephemeral: produced per query, discarded after the generator call.
type RetrievalResult struct {
	Content string
	Origin  string
	Source  string // document title or URL
	Score   float64
}

// RetrievalSet carries the ranked results plus an explicit degradation
// marker: Degraded is true when web augmentation was requested but failed,
// while document results were still returned.
type RetrievalSet struct {
	Results  []RetrievalResult
	Degraded bool
}

// ScoredChunk is the slice of the vector store the retriever needs.
type ScoredChunk struct {
	Content       string
	DocumentTitle string
	Similarity    float64
}

// ChunkSearcher answers tenant-scoped top-K similarity queries.
type ChunkSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int, userId uuid.UUID, workspaceId *uuid.UUID) ([]ScoredChunk, error)
}

type Config struct {
	TopK          int
	MinSimilarity float64 // results strictly below are dropped; <= -1 keeps everything
	CacheTTL      time.Duration
}

// Retriever orchestrates question embedding, the vector-store query and
// best-effort web augmentation.
type Retriever struct {
	embeddingProvider embedding.EmbeddingProvider
	chunkSearcher     ChunkSearcher
	searchProvider    websearch.SearchProvider // nil disables web augmentation
	queryCache        *gocache.Cache
	cfg               Config
	logger            logger.ILogger
}

func New(
	embeddingProvider embedding.EmbeddingProvider,
	chunkSearcher ChunkSearcher,
	searchProvider websearch.SearchProvider,
	cfg Config,
	log logger.ILogger,
) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Retriever{
		embeddingProvider: embeddingProvider,
		chunkSearcher:     chunkSearcher,
		searchProvider:    searchProvider,
		queryCache:        gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cfg:               cfg,
		logger:            log,
	}
}

// Retrieve embeds the question, ranks the tenant's chunks and, when asked,
// augments with up to three web results. A question-embedding failure aborts
// the whole retrieval; a web-search failure only degrades it. Document
// results always precede web results, each group ordered as returned by its
// source.
func (r *Retriever) Retrieve(ctx context.Context, question string, userId uuid.UUID, workspaceId *uuid.UUID, useWebAugment bool) (*RetrievalSet, error) {
	// Web search does not depend on the embedding, run it alongside the
	// embed + vector query. The merge below waits for both.
	var webResults []websearch.Result
	var webErr error
	webDone := make(chan struct{})

	if useWebAugment && r.searchProvider != nil {
		go func() {
			defer close(webDone)
			webResults, webErr = r.searchProvider.Search(ctx, question)
		}()
	} else {
		close(webDone)
	}

	queryVector, err := r.embedQuestion(ctx, question)
	if err != nil {
		// No similarity ranking without the question vector; there is no
		// document-only fallback.
		return nil, err
	}

	scored, err := r.chunkSearcher.SearchSimilar(ctx, queryVector, r.cfg.TopK, userId, workspaceId)
	if err != nil {
		return nil, err
	}

	set := &RetrievalSet{Results: make([]RetrievalResult, 0, len(scored)+webResultLimit)}

	for _, sc := range scored {
		if sc.Similarity < r.cfg.MinSimilarity {
			continue
		}
		set.Results = append(set.Results, RetrievalResult{
			Content: sc.Content,
			Origin:  OriginDocumentChunk,
			Source:  sc.DocumentTitle,
			Score:   sc.Similarity,
		})
	}

	<-webDone

	if useWebAugment && r.searchProvider != nil {
		if webErr != nil {
			// Best effort: degrade, keep whatever the documents gave us.
			set.Degraded = true
			r.logger.Warn("retriever", "web augmentation failed", map[string]interface{}{
				"error": webErr.Error(),
			})
		} else {
			for i, wr := range webResults {
				if i >= webResultLimit {
					break
				}
				set.Results = append(set.Results, RetrievalResult{
					Content: wr.Snippet,
					Origin:  OriginWebPage,
					Source:  wr.URL,
					Score:   1.0 / float64(i+1), // provider rank, best first
				})
			}
		}
	}

	return set, nil
}

// embedQuestion generates (or re-uses) the question embedding. Identical
// questions within the TTL skip the provider round trip.
func (r *Retriever) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	if cached, ok := r.queryCache.Get(question); ok {
		return cached.([]float32), nil
	}

	res, err := r.embeddingProvider.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	r.queryCache.Set(question, res.Embedding.Values, gocache.DefaultExpiration)
	return res.Embedding.Values, nil
}
