package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaperChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaperId    uuid.UUID `gorm:"type:uuid;index"`
	Content    string
	ChunkIndex int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

type ChunkEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChunkId        uuid.UUID `gorm:"type:uuid;index"`
	PaperId        uuid.UUID `gorm:"type:uuid;index"`
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
