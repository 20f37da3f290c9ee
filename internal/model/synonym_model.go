package model

import (
	"time"

	"github.com/google/uuid"
)

// Synonym maps a short research term to the expansion appended during
// query rewriting.
type Synonym struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Term      string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Expansion string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Synonym) TableName() string {
	return "synonyms"
}
