package unitofwork

import (
	"context"

	"ai-search-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContentRepository() contract.ContentRepository
	CollectionRepository() contract.CollectionRepository
	SettingsRepository() contract.SettingsRepository
	IndexStatusRepository() contract.IndexStatusRepository
	SearchHistoryRepository() contract.SearchHistoryRepository
	ContentChunkRepository() contract.ContentChunkRepository
	ContentChunkRefRepository() contract.ContentChunkRefRepository
}
