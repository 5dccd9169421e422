package websearch

import "context"

// Result is one ranked web search hit.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet"`
}

// SearchProvider defines the interface for live web search augmentation.
// Implementations return *apperror.ProviderError on failure; callers treat
// that as a degraded, non-fatal condition.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
