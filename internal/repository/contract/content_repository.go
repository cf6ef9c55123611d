package contract

import (
	"context"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/repository/specification"
)

type ContentRepository interface {
	Create(ctx context.Context, content *entity.Content) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ListPublished returns every published record of a collection.
	ListPublished(ctx context.Context, collectionId string) ([]*entity.Content, error)
	FindById(ctx context.Context, id string) (*entity.Content, error)
	FindByIds(ctx context.Context, ids []string) ([]*entity.Content, error)
}

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collection, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collection, error)
}
