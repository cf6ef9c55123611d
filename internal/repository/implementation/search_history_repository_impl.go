package implementation

import (
	"context"
	"time"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/model"
	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SearchHistoryMapper
}

func NewSearchHistoryRepository(db *gorm.DB) contract.SearchHistoryRepository {
	return &SearchHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewSearchHistoryMapper(),
	}
}

func (r *SearchHistoryRepositoryImpl) since(ctx context.Context, since time.Time) *gorm.DB {
	return specification.CreatedSince{Since: since}.Apply(r.db.WithContext(ctx).Model(&model.SearchHistory{}))
}

func (r *SearchHistoryRepositoryImpl) Create(ctx context.Context, history *entity.SearchHistory) error {
	if history.Id == uuid.Nil {
		history.Id = uuid.New()
	}
	m := r.mapper.ToModel(history)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	history.CreatedAt = m.CreatedAt
	return nil
}

func (r *SearchHistoryRepositoryImpl) FindDistinctQueries(ctx context.Context, partial string, limit int) ([]string, error) {
	var queries []string
	err := r.db.WithContext(ctx).
		Model(&model.SearchHistory{}).
		Select("query").
		Where(`query ILIKE ? ESCAPE '\'`, specification.ContainsPattern(partial)).
		Group("query").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("query", &queries).Error
	return queries, err
}

func (r *SearchHistoryRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.since(ctx, since).Count(&count).Error
	return count, err
}

func (r *SearchHistoryRepositoryImpl) CountByModeSince(ctx context.Context, since time.Time) (map[entity.SearchMode]int64, error) {
	var rows []struct {
		Mode  string
		Count int64
	}
	err := r.since(ctx, since).
		Select("mode, COUNT(*) AS count").
		Group("mode").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[entity.SearchMode]int64, len(rows))
	for _, row := range rows {
		out[entity.SearchMode(row.Mode)] = row.Count
	}
	return out, nil
}

func (r *SearchHistoryRepositoryImpl) PopularSince(ctx context.Context, since time.Time, limit int) ([]entity.PopularQuery, error) {
	var rows []struct {
		Query string
		Count int64
	}
	err := r.since(ctx, since).
		Select("query, COUNT(*) AS count").
		Group("query").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.PopularQuery, len(rows))
	for i, row := range rows {
		out[i] = entity.PopularQuery{Query: row.Query, Count: row.Count}
	}
	return out, nil
}

func (r *SearchHistoryRepositoryImpl) AverageQueryTimeSince(ctx context.Context, since time.Time) (float64, error) {
	var avg float64
	err := r.since(ctx, since).
		Select("COALESCE(AVG(query_time_ms), 0)").
		Row().
		Scan(&avg)
	return avg, err
}
