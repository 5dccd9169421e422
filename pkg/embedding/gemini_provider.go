package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-docchat-be/pkg/apperror"
)

const geminiEmbeddingModel = "text-embedding-004"

// geminiDimension is fixed by the model; changing models requires
// re-embedding every stored chunk.
const geminiDimension = 768

type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geminiRequestContentPart struct {
	Text string `json:"text"`
}

type geminiRequestContent struct {
	Parts []geminiRequestContentPart `json:"parts"`
}

type geminiEmbeddingRequest struct {
	Model    string               `json:"model"`
	Content  geminiRequestContent `json:"content"`
	TaskType string               `json:"task_type,omitempty"`
}

func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	geminiReq := geminiEmbeddingRequest{
		Model: geminiEmbeddingModel,
		Content: geminiRequestContent{
			Parts: []geminiRequestContentPart{
				{
					Text: capInput(text),
				},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, apperror.NewProviderError("gemini", "embed", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:embedContent",
		geminiEmbeddingModel,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(geminiReqJson))
	if err != nil {
		return nil, apperror.NewProviderError("gemini", "embed", err)
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, apperror.NewProviderError("gemini", "embed", err)
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.NewProviderError("gemini", "embed", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, apperror.NewProviderError("gemini", "embed",
			fmt.Errorf("unexpected status %d, body %s", res.StatusCode, string(resByte)))
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, apperror.NewProviderError("gemini", "embed", err)
	}

	if len(resEmbedding.Embedding.Values) == 0 {
		return nil, apperror.NewProviderError("gemini", "embed",
			fmt.Errorf("empty embedding in response"))
	}

	return &resEmbedding, nil
}

func (p *GeminiProvider) Dimension() int {
	return geminiDimension
}
