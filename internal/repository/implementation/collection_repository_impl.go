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

type CollectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CollectionMapper
}

func NewCollectionRepository(db *gorm.DB) contract.CollectionRepository {
	return &CollectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCollectionMapper(),
	}
}

func (r *CollectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CollectionRepositoryImpl) Create(ctx context.Context, collection *entity.Collection) error {
	m := r.mapper.ToModel(collection)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*collection = *r.mapper.ToEntity(m)
	return nil
}

func (r *CollectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collection, error) {
	var m model.Collection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CollectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collection, error) {
	var models []*model.Collection
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
