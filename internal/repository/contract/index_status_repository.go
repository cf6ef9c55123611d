package contract

import (
	"context"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/repository/specification"
)

type IndexStatusRepository interface {
	FindByCollectionId(ctx context.Context, collectionId string) (*entity.IndexStatus, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexStatus, error)
	// Upsert writes one row per collection id.
	Upsert(ctx context.Context, status *entity.IndexStatus) error
}
