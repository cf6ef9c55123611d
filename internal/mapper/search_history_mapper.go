package mapper

import (
	"ai-search-be/internal/entity"
	"ai-search-be/internal/model"
)

type SearchHistoryMapper struct{}

func NewSearchHistoryMapper() *SearchHistoryMapper {
	return &SearchHistoryMapper{}
}

func (m *SearchHistoryMapper) ToEntity(h *model.SearchHistory) *entity.SearchHistory {
	if h == nil {
		return nil
	}
	return &entity.SearchHistory{
		Id:           h.Id,
		Query:        h.Query,
		Mode:         entity.SearchMode(h.Mode),
		ResultsCount: h.ResultsCount,
		QueryTimeMs:  h.QueryTimeMs,
		CreatedAt:    h.CreatedAt,
	}
}

func (m *SearchHistoryMapper) ToModel(h *entity.SearchHistory) *model.SearchHistory {
	if h == nil {
		return nil
	}
	return &model.SearchHistory{
		Id:           h.Id,
		Query:        h.Query,
		Mode:         string(h.Mode),
		ResultsCount: h.ResultsCount,
		QueryTimeMs:  h.QueryTimeMs,
		CreatedAt:    h.CreatedAt,
	}
}
