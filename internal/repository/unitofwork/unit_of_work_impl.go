package unitofwork

import (
	"context"
	"fmt"

	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) ContentRepository() contract.ContentRepository {
	return implementation.NewContentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CollectionRepository() contract.CollectionRepository {
	return implementation.NewCollectionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SettingsRepository() contract.SettingsRepository {
	return implementation.NewSettingsRepository(u.getDB())
}

func (u *UnitOfWorkImpl) IndexStatusRepository() contract.IndexStatusRepository {
	return implementation.NewIndexStatusRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SearchHistoryRepository() contract.SearchHistoryRepository {
	return implementation.NewSearchHistoryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ContentChunkRepository() contract.ContentChunkRepository {
	return implementation.NewContentChunkRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ContentChunkRefRepository() contract.ContentChunkRefRepository {
	return implementation.NewContentChunkRefRepository(u.getDB())
}
