package mapper

import (
	"strings"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/entity"
	"ai-search-be/pkg/queryparse"
)

type SearchMapper struct{}

func NewSearchMapper() *SearchMapper {
	return &SearchMapper{}
}

// ToQuery normalizes a request. Unknown or empty modes fall back to keyword.
func (m *SearchMapper) ToQuery(req *dto.SearchRequest) entity.SearchQuery {
	if req == nil {
		return entity.SearchQuery{Mode: entity.SearchModeKeyword}
	}

	mode := entity.SearchModeKeyword
	if strings.EqualFold(req.Mode, string(entity.SearchModeAI)) {
		mode = entity.SearchModeAI
	}

	// Inline operators only fill filters the request left empty.
	ops := queryparse.Parse(req.Query)
	q := entity.SearchQuery{
		Query: ops.Text,
		Mode:  mode,
		Filters: entity.SearchFilters{
			Collections: compact(req.Filters.Collections),
			Status:      compact(req.Filters.Status),
			Author:      strings.TrimSpace(req.Filters.Author),
		},
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if len(q.Filters.Collections) == 0 {
		q.Filters.Collections = ops.Collections
	}
	if len(q.Filters.Status) == 0 {
		q.Filters.Status = ops.Status
	}
	if q.Filters.Author == "" {
		q.Filters.Author = ops.Author
	}

	if dr := req.Filters.DateRange; dr != nil && (!dr.Start.IsZero() || !dr.End.IsZero()) {
		field := dr.Field
		if field == "" {
			field = "created_at"
		}
		q.Filters.DateRange = &entity.DateRange{Start: dr.Start, End: dr.End, Field: field}
	}

	return q
}

func (m *SearchMapper) ToResponse(res *entity.SearchResponse) *dto.SearchResponse {
	if res == nil {
		return nil
	}

	results := make([]dto.SearchResultResponse, len(res.Results))
	for i, r := range res.Results {
		results[i] = dto.SearchResultResponse{
			Id:             r.Id,
			Title:          r.Title,
			Slug:           r.Slug,
			CollectionId:   r.CollectionId,
			CollectionName: r.CollectionName,
			Snippet:        r.Snippet,
			RelevanceScore: r.RelevanceScore,
			Status:         r.Status,
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
			AuthorName:     r.AuthorName,
		}
	}

	return &dto.SearchResponse{
		Results:     results,
		Total:       res.Total,
		QueryTimeMs: res.QueryTimeMs,
		Mode:        string(res.Mode),
	}
}

func (m *SearchMapper) ToSettingsResponse(s entity.AISearchSettings) *dto.AISearchSettingsResponse {
	return &dto.AISearchSettingsResponse{
		Enabled:              s.Enabled,
		AIModeEnabled:        s.AIModeEnabled,
		SelectedCollections:  nonNil(s.SelectedCollections),
		DismissedCollections: nonNil(s.DismissedCollections),
		AutocompleteEnabled:  s.AutocompleteEnabled,
		CacheDuration:        s.CacheDuration,
		ResultsLimit:         s.ResultsLimit,
		IndexMedia:           s.IndexMedia,
	}
}

// MergeSettings applies the non-nil fields of req over current.
func (m *SearchMapper) MergeSettings(current entity.AISearchSettings, req *dto.UpdateAISearchSettingsRequest) entity.AISearchSettings {
	if req == nil {
		return current
	}
	if req.Enabled != nil {
		current.Enabled = *req.Enabled
	}
	if req.AIModeEnabled != nil {
		current.AIModeEnabled = *req.AIModeEnabled
	}
	if req.SelectedCollections != nil {
		current.SelectedCollections = compact(req.SelectedCollections)
	}
	if req.DismissedCollections != nil {
		current.DismissedCollections = compact(req.DismissedCollections)
	}
	if req.AutocompleteEnabled != nil {
		current.AutocompleteEnabled = *req.AutocompleteEnabled
	}
	if req.CacheDuration != nil {
		current.CacheDuration = *req.CacheDuration
	}
	if req.ResultsLimit != nil {
		current.ResultsLimit = *req.ResultsLimit
	}
	if req.IndexMedia != nil {
		current.IndexMedia = *req.IndexMedia
	}
	return current
}

func (m *SearchMapper) ToIndexStatusResponse(s *entity.IndexStatus) dto.IndexStatusResponse {
	return dto.IndexStatusResponse{
		CollectionId:   s.CollectionId,
		CollectionName: s.CollectionName,
		TotalItems:     s.TotalItems,
		IndexedItems:   s.IndexedItems,
		LastSyncAt:     s.LastSyncAt,
		Status:         string(s.Status),
		ErrorMessage:   s.ErrorMessage,
	}
}

func (m *SearchMapper) ToCollectionInfoResponse(c entity.CollectionInfo) dto.CollectionInfoResponse {
	return dto.CollectionInfoResponse{
		Id:          c.Id,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		ItemCount:   c.ItemCount,
		IsIndexed:   c.IsIndexed,
		IsDismissed: c.IsDismissed,
		IsNew:       c.IsNew,
	}
}

func (m *SearchMapper) ToAnalyticsResponse(a *entity.SearchAnalytics) *dto.SearchAnalyticsResponse {
	popular := make([]dto.PopularQueryResponse, len(a.PopularQueries))
	for i, p := range a.PopularQueries {
		popular[i] = dto.PopularQueryResponse{Query: p.Query, Count: p.Count}
	}
	return &dto.SearchAnalyticsResponse{
		TotalQueries:       a.TotalQueries,
		AIQueries:          a.AIQueries,
		KeywordQueries:     a.KeywordQueries,
		PopularQueries:     popular,
		AverageQueryTimeMs: a.AverageQueryTimeMs,
	}
}

// compact trims entries and drops empty ones.
func compact(list []string) []string {
	if list == nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
