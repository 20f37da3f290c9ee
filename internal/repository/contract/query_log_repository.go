package contract

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/repository/specification"
)

type QueryLogRepository interface {
	Create(ctx context.Context, log *entity.QueryLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QueryLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type SynonymRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Synonym, error)
}
