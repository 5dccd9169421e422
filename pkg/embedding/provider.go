package embedding

import "context"

// Task types passed to providers that distinguish document vs query embeddings.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// MaxInputChars caps text sent to a provider; longer inputs are truncated
// before the call to stay inside provider token limits.
const MaxInputChars = 30000

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations return *apperror.ProviderError on any provider failure and
// are safe to retry at the call site.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	// Dimension reports the fixed vector length this provider produces.
	Dimension() int
}

// capInput truncates text to MaxInputChars runes.
func capInput(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}
