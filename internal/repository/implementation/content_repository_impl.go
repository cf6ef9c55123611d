package implementation

import (
	"context"
	"errors"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/model"
	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/specification"

	"gorm.io/gorm"
)

const contentSelect = "content.*, collections.name AS collection_slug, collections.display_name AS collection_name, users.email AS author_name"

type ContentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewContentRepository(db *gorm.DB) contract.ContentRepository {
	return &ContentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *ContentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// joined is the base query every read goes through: collection display name
// and author email come from the joins.
func (r *ContentRepositoryImpl) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Content{}).
		Joins("JOIN collections ON collections.id = content.collection_id").
		Joins("LEFT JOIN users ON users.id = content.author_id")
}

func (r *ContentRepositoryImpl) Create(ctx context.Context, content *entity.Content) error {
	m := r.mapper.ToModel(content)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	content.CreatedAt = m.CreatedAt
	content.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ContentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error) {
	var m model.Content
	query := r.applySpecifications(r.joined(ctx).Select(contentSelect), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error) {
	var models []*model.Content
	query := r.applySpecifications(r.joined(ctx).Select(contentSelect), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ContentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.joined(ctx), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ContentRepositoryImpl) ListPublished(ctx context.Context, collectionId string) ([]*entity.Content, error) {
	return r.FindAll(ctx,
		specification.ByCollectionID{CollectionID: collectionId},
		specification.Published{},
		specification.OrderBy{Field: "content.created_at"},
	)
}

func (r *ContentRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Content, error) {
	return r.FindOne(ctx, specification.ContentByID{ID: id})
}

func (r *ContentRepositoryImpl) FindByIds(ctx context.Context, ids []string) ([]*entity.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.FindAll(ctx, specification.ContentByIDs{IDs: ids})
}
