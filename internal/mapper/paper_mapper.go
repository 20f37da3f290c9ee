package mapper

import (
	"time"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/model"

	"gorm.io/gorm"
)

type PaperMapper struct{}

func NewPaperMapper() *PaperMapper {
	return &PaperMapper{}
}

func (m *PaperMapper) ToEntity(p *model.Paper) *entity.Paper {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Paper{
		Id:          p.Id,
		Title:       p.Title,
		Abstract:    p.Abstract,
		Authors:     p.Authors,
		Category:    p.Category,
		Year:        p.Year,
		SourceURL:   p.SourceURL,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   p.DeletedAt.Valid,
	}
}

func (m *PaperMapper) ToModel(p *entity.Paper) *model.Paper {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Paper{
		Id:          p.Id,
		Title:       p.Title,
		Abstract:    p.Abstract,
		Authors:     p.Authors,
		Category:    p.Category,
		Year:        p.Year,
		SourceURL:   p.SourceURL,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *PaperMapper) ToEntities(papers []*model.Paper) []*entity.Paper {
	entities := make([]*entity.Paper, len(papers))
	for i, p := range papers {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PaperMapper) ToModels(papers []*entity.Paper) []*model.Paper {
	models := make([]*model.Paper, len(papers))
	for i, p := range papers {
		models[i] = m.ToModel(p)
	}
	return models
}
