package implementation

import (
	"context"
	"errors"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/model"
	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IndexStatusRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IndexStatusMapper
}

func NewIndexStatusRepository(db *gorm.DB) contract.IndexStatusRepository {
	return &IndexStatusRepositoryImpl{
		db:     db,
		mapper: mapper.NewIndexStatusMapper(),
	}
}

func (r *IndexStatusRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IndexStatusRepositoryImpl) FindByCollectionId(ctx context.Context, collectionId string) (*entity.IndexStatus, error) {
	var m model.IndexStatus
	if err := r.db.WithContext(ctx).Where("collection_id = ?", collectionId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IndexStatusRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.IndexStatus, error) {
	var models []*model.IndexStatus
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *IndexStatusRepositoryImpl) Upsert(ctx context.Context, status *entity.IndexStatus) error {
	if status.Id == uuid.Nil {
		status.Id = uuid.New()
	}
	m := r.mapper.ToModel(status)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "collection_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"collection_name", "total_items", "indexed_items",
				"last_sync_at", "status", "error_message", "updated_at",
			}),
		}).
		Create(m).Error
}
