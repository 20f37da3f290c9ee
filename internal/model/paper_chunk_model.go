package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaperChunk struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Content    string         `gorm:"type:text;not null"`
	ChunkIndex int            `gorm:"default:0"` // 0-based index for ordering
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (PaperChunk) TableName() string {
	return "paper_chunks"
}
