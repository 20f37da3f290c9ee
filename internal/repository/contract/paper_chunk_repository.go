package contract

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/repository/specification"
	"ai-research-hub-be/pkg/store"

	"github.com/google/uuid"
)

// RankedChunk is a search hit joined with its parent paper's display
// fields, carrying the source-native score (ts_rank for text search,
// cosine similarity for vector search).
type RankedChunk struct {
	Chunk         *entity.PaperChunk
	PaperTitle    string
	PaperYear     int
	PaperCategory string
	PaperURL      string
	Score         float64
}

type PaperChunkRepository interface {
	Create(ctx context.Context, chunk *entity.PaperChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.PaperChunk) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPaperId(ctx context.Context, paperId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaperChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaperChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchText runs Postgres full-text search over chunk content ranked
	// by ts_rank, honoring the year/category filters.
	SearchText(ctx context.Context, queryText string, limit int, filters store.Filters) ([]*RankedChunk, error)
}
