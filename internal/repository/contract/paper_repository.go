package contract

import (
	"context"

	"ai-research-hub-be/internal/entity"
	"ai-research-hub-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaperRepository interface {
	Create(ctx context.Context, paper *entity.Paper) error
	CreateBulk(ctx context.Context, papers []*entity.Paper) error
	Update(ctx context.Context, paper *entity.Paper) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Paper, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Paper, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
