package entity

import (
	"time"

	"github.com/google/uuid"
)

type Paper struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string
	Abstract    string
	Authors     string
	Category    string
	Year        int
	SourceURL   string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
