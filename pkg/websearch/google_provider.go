package websearch

import (
	"context"

	"ai-docchat-be/pkg/apperror"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResults is the provider-side page size; the retriever bounds results
// further regardless of what the provider returns.
const maxResults = 5

// GoogleProvider implements SearchProvider using the Google Custom Search
// JSON API (a Programmable Search Engine id is required). The API client is
// built once at construction and reused across searches.
type GoogleProvider struct {
	engineId string
	service  *customsearch.Service
}

func NewGoogleProvider(apiKey, engineId string) (SearchProvider, error) {
	svc, err := customsearch.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperror.NewProviderError("google-search", "init", err)
	}
	return &GoogleProvider{
		engineId: engineId,
		service:  svc,
	}, nil
}

func (p *GoogleProvider) Search(ctx context.Context, query string) ([]Result, error) {
	resp, err := p.service.Cse.List().
		Q(query).
		Cx(p.engineId).
		Num(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, apperror.NewProviderError("google-search", "search", err)
	}

	if resp.Items == nil {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, Result{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}

	return results, nil
}

var _ SearchProvider = &GoogleProvider{}
