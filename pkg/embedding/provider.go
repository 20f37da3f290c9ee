package embedding

import "context"

// EmbeddingResponse wraps the generated vector.
type EmbeddingResponse struct {
	Values []float32
}

// EmbeddingProvider defines the interface for generating text embeddings.
// taskType distinguishes document vs. query embedding for providers that
// care (e.g. "RETRIEVAL_QUERY"); others ignore it.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}
