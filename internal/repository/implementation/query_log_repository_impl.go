package implementation

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/mapper"
	"ai-research-hub-be/internal/model"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/internal/repository/specification"

	"gorm.io/gorm"
)

type QueryLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QueryLogMapper
}

func NewQueryLogRepository(db *gorm.DB) contract.QueryLogRepository {
	return &QueryLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewQueryLogMapper(),
	}
}

func (r *QueryLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QueryLogRepositoryImpl) Create(ctx context.Context, log *entity.QueryLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *QueryLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryLog, error) {
	var models []*model.QueryLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QueryLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.QueryLog{}).Count(&count).Error
	return count, err
}

type SynonymRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SynonymMapper
}

func NewSynonymRepository(db *gorm.DB) contract.SynonymRepository {
	return &SynonymRepositoryImpl{
		db:     db,
		mapper: mapper.NewSynonymMapper(),
	}
}

func (r *SynonymRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Synonym, error) {
	var models []*model.Synonym
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
