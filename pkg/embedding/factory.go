package embedding

import "fmt"

func NewProvider(providerType, model, openaiBaseURL, openaiAPIKey, ollamaBaseURL string) (EmbeddingProvider, error) {
	switch providerType {
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires OPENAI_API_KEY")
		}
		return NewOpenAIProvider(openaiBaseURL, openaiAPIKey, model), nil
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
