package factory

import (
	"fmt"

	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/llm/groq"
	"ai-docchat-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured generation backend.
func NewLLMProvider(provider, model, ollamaBaseURL, groqApiKey string) (llm.LLMProvider, error) {
	switch provider {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	case "groq":
		if groqApiKey == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY")
		}
		return groq.NewGroqProvider(groqApiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", provider)
	}
}
