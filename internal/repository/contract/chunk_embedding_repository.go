package contract

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/repository/specification"
	"ai-research-hub-be/pkg/store"

	"github.com/google/uuid"
)

type ChunkEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ChunkEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPaperId(ctx context.Context, paperId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns the nearest chunks by cosine
	// similarity, honoring the year/category filters.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filters store.Filters) ([]*RankedChunk, error)
}
