package implementation

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/mapper"
	"ai-research-hub-be/internal/model"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/internal/repository/specification"
	"ai-research-hub-be/pkg/store"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkEmbeddingMapper
}

func NewChunkEmbeddingRepository(db *gorm.DB) contract.ChunkEmbeddingRepository {
	return &ChunkEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkEmbeddingMapper(),
	}
}

func (r *ChunkEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChunkEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ChunkEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ChunkEmbedding) error {
	models := make([]*model.ChunkEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkEmbeddingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ChunkEmbedding{}, id).Error
}

func (r *ChunkEmbeddingRepositoryImpl) DeleteByPaperId(ctx context.Context, paperId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("paper_id = ?", paperId).Delete(&model.ChunkEmbedding{}).Error
}

func (r *ChunkEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChunkEmbedding, error) {
	var models []*model.ChunkEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChunkEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ChunkEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns the nearest chunks by cosine similarity.
// pgvector's <=> operator is cosine distance, so similarity is 1 - distance.
func (r *ChunkEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filters store.Filters) ([]*contract.RankedChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.PaperChunk
		PaperTitle    string
		PaperYear     int
		PaperCategory string
		PaperURL      string
		Score         float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select(`paper_chunks.*,
			papers.title as paper_title,
			papers.year as paper_year,
			papers.category as paper_category,
			papers.source_url as paper_url,
			1 - (chunk_embeddings.embedding_value <=> ?) as score`, queryVector).
		Joins("JOIN paper_chunks ON paper_chunks.id = chunk_embeddings.chunk_id").
		Joins("JOIN papers ON papers.id = chunk_embeddings.paper_id").
		Where("chunk_embeddings.deleted_at IS NULL").
		Where("paper_chunks.deleted_at IS NULL").
		Where("papers.deleted_at IS NULL")

	if filters.Year != 0 {
		query = query.Where("papers.year = ?", filters.Year)
	}
	if filters.Category != "" {
		query = query.Where("papers.category = ?", filters.Category)
	}

	err := query.
		Order(gorm.Expr("chunk_embeddings.embedding_value <=> ?", queryVector)).
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	chunkMapper := mapper.NewPaperChunkMapper()
	ranked := make([]*contract.RankedChunk, len(results))
	for i, res := range results {
		ranked[i] = &contract.RankedChunk{
			Chunk:         chunkMapper.ToEntity(&res.PaperChunk),
			PaperTitle:    res.PaperTitle,
			PaperYear:     res.PaperYear,
			PaperCategory: res.PaperCategory,
			PaperURL:      res.PaperURL,
			Score:         res.Score,
		}
	}
	return ranked, nil
}
