package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QueryLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QueryId   *uuid.UUID     `gorm:"type:uuid;index"`
	RawText   string         `gorm:"type:text;not null"`
	Answer    *string        `gorm:"type:text"`
	ErrorKind *string        `gorm:"type:varchar(50);index"`
	Citations int            `gorm:"default:0"`
	Partial   bool           `gorm:"default:false"`
	LatencyMs int64          `gorm:"default:0"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"default:now();not null;index"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}
