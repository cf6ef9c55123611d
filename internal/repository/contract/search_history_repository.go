package contract

import (
	"context"
	"time"

	"ai-search-be/internal/entity"
)

type SearchHistoryRepository interface {
	Create(ctx context.Context, history *entity.SearchHistory) error
	// FindDistinctQueries matches partial case-insensitively, most recent first.
	FindDistinctQueries(ctx context.Context, partial string, limit int) ([]string, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByModeSince(ctx context.Context, since time.Time) (map[entity.SearchMode]int64, error)
	PopularSince(ctx context.Context, since time.Time, limit int) ([]entity.PopularQuery, error)
	AverageQueryTimeSince(ctx context.Context, since time.Time) (float64, error)
}
