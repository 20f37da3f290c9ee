package implementation

import (
	"context"
	"errors"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/mapper"
	"ai-research-hub-be/internal/model"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/internal/repository/specification"
	"ai-research-hub-be/pkg/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaperChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaperChunkMapper
}

func NewPaperChunkRepository(db *gorm.DB) contract.PaperChunkRepository {
	return &PaperChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaperChunkMapper(),
	}
}

func (r *PaperChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaperChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.PaperChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaperChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.PaperChunk) error {
	models := make([]*model.PaperChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PaperChunkRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PaperChunk{}, id).Error
}

func (r *PaperChunkRepositoryImpl) DeleteByPaperId(ctx context.Context, paperId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("paper_id = ?", paperId).Delete(&model.PaperChunk{}).Error
}

func (r *PaperChunkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaperChunk, error) {
	var m model.PaperChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaperChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaperChunk, error) {
	var models []*model.PaperChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PaperChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.PaperChunk{}).Count(&count).Error
	return count, err
}

// SearchText ranks chunks with Postgres full-text search. plainto_tsquery
// keeps user input safe (no tsquery syntax is interpreted).
func (r *PaperChunkRepositoryImpl) SearchText(ctx context.Context, queryText string, limit int, filters store.Filters) ([]*contract.RankedChunk, error) {
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

	query := r.db.WithContext(ctx).
		Table("paper_chunks").
		Select(`paper_chunks.*,
			papers.title as paper_title,
			papers.year as paper_year,
			papers.category as paper_category,
			papers.source_url as paper_url,
			ts_rank(to_tsvector('english', paper_chunks.content), plainto_tsquery('english', ?)) as score`, queryText).
		Joins("JOIN papers ON papers.id = paper_chunks.paper_id").
		Where("to_tsvector('english', paper_chunks.content) @@ plainto_tsquery('english', ?)", queryText).
		Where("paper_chunks.deleted_at IS NULL").
		Where("papers.deleted_at IS NULL")

	if filters.Year != 0 {
		query = query.Where("papers.year = ?", filters.Year)
	}
	if filters.Category != "" {
		query = query.Where("papers.category = ?", filters.Category)
	}

	err := query.
		Order("score DESC, paper_chunks.id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	ranked := make([]*contract.RankedChunk, len(results))
	for i, res := range results {
		ranked[i] = &contract.RankedChunk{
			Chunk:         r.mapper.ToEntity(&res.PaperChunk),
			PaperTitle:    res.PaperTitle,
			PaperYear:     res.PaperYear,
			PaperCategory: res.PaperCategory,
			PaperURL:      res.PaperURL,
			Score:         res.Score,
		}
	}
	return ranked, nil
}
