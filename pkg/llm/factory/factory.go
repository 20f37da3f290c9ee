package factory

import (
	"fmt"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/llm/ollama"
	"ai-research-hub-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, openaiBaseURL, openaiAPIKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return openai.NewOpenAIProvider(openaiBaseURL, openaiAPIKey, modelName), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
