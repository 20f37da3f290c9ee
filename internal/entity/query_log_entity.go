package entity

import (
	"time"

	"github.com/google/uuid"
)

type QueryLog struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	QueryId   *uuid.UUID
	RawText   string
	Answer    *string
	ErrorKind *string
	Citations int
	Partial   bool
	LatencyMs int64
	Details   map[string]interface{}
	CreatedAt time.Time
}

type Synonym struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Term      string
	Expansion string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
