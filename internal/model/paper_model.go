package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Paper struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string         `gorm:"type:varchar(512);not null"`
	Abstract    string         `gorm:"type:text"`
	Authors     string         `gorm:"type:text"`
	Category    string         `gorm:"type:varchar(100);index"`
	Year        int            `gorm:"index"`
	SourceURL   string         `gorm:"type:varchar(1024)"`
	PublishedAt *time.Time
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Paper) TableName() string {
	return "papers"
}
