package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByPaperId filters chunks/embeddings belonging to one paper.
type ByPaperId struct {
	PaperId uuid.UUID
}

func (s ByPaperId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("paper_id = ?", s.PaperId)
}

// ByYear filters papers by publication year.
type ByYear struct {
	Year int
}

func (s ByYear) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("year = ?", s.Year)
}

// ByCategory filters papers by category.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByErrorKind filters query logs by terminal error kind.
type ByErrorKind struct {
	Kind string
}

func (s ByErrorKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("error_kind = ?", s.Kind)
}
