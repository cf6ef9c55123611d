package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/internal/repository/specification"
	"ai-search-be/internal/repository/unitofwork"
	"ai-search-be/pkg/cache"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var searchTracer = otel.Tracer("ai-search-be/internal/service/search")

const (
	suggestMinChars    = 2
	suggestLimit       = 10
	popularQueryLimit  = 10
	analyticsWindow    = 30 * 24 * time.Hour
	snippetContext     = 50
	snippetFallbackLen = 200
	resultCachePrefix  = "ai-search:results"
)

// SemanticSearcher is the query side of the orchestrator.
type SemanticSearcher interface {
	Available() bool
	Search(ctx context.Context, query entity.SearchQuery, settings entity.AISearchSettings) (*entity.SearchResponse, error)
}

type ISearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Suggest(ctx context.Context, partial string) ([]string, error)
	DetectNewCollections(ctx context.Context) ([]dto.NewCollectionNotificationResponse, error)
	GetAllCollections(ctx context.Context) ([]dto.CollectionInfoResponse, error)
	GetAnalytics(ctx context.Context) (*dto.SearchAnalyticsResponse, error)
}

type searchService struct {
	uowFactory      unitofwork.RepositoryFactory
	settingsService ISettingsService
	semantic        SemanticSearcher
	resultCache     cache.ResultCache
	mapper          *mapper.SearchMapper
	logger          logger.ILogger
	now             func() time.Time
}

// NewSearchService accepts a nil semantic searcher or result cache.
func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	settingsService ISettingsService,
	semantic SemanticSearcher,
	resultCache cache.ResultCache,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory:      uowFactory,
		settingsService: settingsService,
		semantic:        semantic,
		resultCache:     resultCache,
		mapper:          mapper.NewSearchMapper(),
		logger:          log,
		now:             time.Now,
	}
}

func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	res := s.search(ctx, s.mapper.ToQuery(req))
	return s.mapper.ToResponse(res), nil
}

// search dispatches on mode. The semantic path falls back to keyword on any
// error, the keyword path degrades to an empty result.
func (s *searchService) search(ctx context.Context, query entity.SearchQuery) *entity.SearchResponse {
	ctx, span := searchTracer.Start(ctx, "SearchService.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.mode", string(query.Mode)),
		attribute.Int("search.limit", query.Limit),
	)

	settings := s.settingsService.Current(ctx)
	if !settings.Enabled {
		return emptyResponse(query.Mode, 0)
	}

	cacheKey, cacheTTL := s.cacheKey(query, settings)
	if cached := s.cached(ctx, cacheKey); cached != nil {
		span.SetAttributes(attribute.Bool("search.cache_hit", true))
		return cached
	}

	wantAI := query.Mode == entity.SearchModeAI && settings.AIModeEnabled && s.semantic != nil
	mode := entity.SearchModeKeyword
	if wantAI && s.semantic.Available() {
		mode = entity.SearchModeAI
	}

	var res *entity.SearchResponse
	if mode == entity.SearchModeAI {
		var err error
		res, err = s.semantic.Search(ctx, query, settings)
		if err != nil {
			s.logger.Warn(logger.ModuleSearch, "Semantic search failed, falling back to keyword", map[string]interface{}{"error": err.Error()})
			span.RecordError(err)
			mode = entity.SearchModeKeyword
			res = nil
		}
	}

	var ok bool
	if mode == entity.SearchModeKeyword {
		res, ok = s.searchKeyword(ctx, query, settings)
	} else {
		ok = true
	}

	span.SetAttributes(
		attribute.String("search.resolved_mode", string(res.Mode)),
		attribute.Int("search.results", len(res.Results)),
	)

	if ok {
		s.logSearch(ctx, query.Query, res)
		// a keyword fallback for an ai request must not outlive the provider outage
		degraded := wantAI && res.Mode != entity.SearchModeAI
		if cacheKey != "" && !degraded {
			if err := s.resultCache.Set(ctx, cacheKey, res, cacheTTL); err != nil {
				s.logger.Debug(logger.ModuleSearch, "Result cache write failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return res
}

func (s *searchService) searchKeyword(ctx context.Context, query entity.SearchQuery, settings entity.AISearchSettings) (*entity.SearchResponse, bool) {
	start := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ContentRepository()

	specs := keywordSpecs(query, settings)

	total, err := repo.Count(ctx, specs...)
	if err != nil {
		s.logger.Error(logger.ModuleSearch, "Keyword count failed", map[string]interface{}{"error": err.Error()})
		return emptyResponse(entity.SearchModeKeyword, time.Since(start).Milliseconds()), false
	}

	limit := query.Limit
	if limit <= 0 {
		limit = settings.ResultsLimit
	}
	if limit <= 0 {
		limit = entity.DefaultAISearchSettings().ResultsLimit
	}

	page := append(specs,
		specification.OrderBy{Field: "content.updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: query.Offset},
	)
	rows, err := repo.FindAll(ctx, page...)
	if err != nil {
		s.logger.Error(logger.ModuleSearch, "Keyword search failed", map[string]interface{}{"error": err.Error()})
		return emptyResponse(entity.SearchModeKeyword, time.Since(start).Milliseconds()), false
	}

	results := make([]entity.SearchResult, 0, len(rows))
	for _, row := range rows {
		title := row.Title
		if title == "" {
			title = "Untitled"
		}
		results = append(results, entity.SearchResult{
			Id:             row.Id,
			Title:          title,
			Slug:           row.Slug,
			CollectionId:   row.CollectionId,
			CollectionName: row.CollectionName,
			Snippet:        extractSnippet(row.Data, query.Query),
			Status:         row.Status,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
			AuthorName:     row.AuthorName,
		})
	}

	return &entity.SearchResponse{
		Results:     results,
		Total:       int(total),
		QueryTimeMs: time.Since(start).Milliseconds(),
		Mode:        entity.SearchModeKeyword,
	}, true
}

func keywordSpecs(query entity.SearchQuery, settings entity.AISearchSettings) []specification.Specification {
	var specs []specification.Specification

	if query.Query != "" {
		specs = append(specs, specification.ContentSearchQuery{Query: query.Query})
	}

	if len(query.Filters.Collections) > 0 {
		specs = append(specs, specification.ByCollectionIDs{CollectionIDs: query.Filters.Collections})
	} else if len(settings.SelectedCollections) > 0 {
		specs = append(specs, specification.ByCollectionIDs{CollectionIDs: settings.SelectedCollections})
	}

	if len(query.Filters.Status) > 0 {
		specs = append(specs, specification.ByStatuses{Statuses: query.Filters.Status})
	} else {
		specs = append(specs, specification.ExcludeStatus{Status: entity.ContentStatusDeleted})
	}

	if dr := query.Filters.DateRange; dr != nil {
		specs = append(specs, specification.ByDateRange{Field: dr.Field, Start: dr.Start, End: dr.End})
	}

	if query.Filters.Author != "" {
		specs = append(specs, specification.ByAuthor{AuthorID: query.Filters.Author})
	}

	return specs
}

// extractSnippet returns the text around the first case-insensitive match of
// query in the serialized data, or its first characters when there is none.
func extractSnippet(data, query string) string {
	text := data
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(data)); err == nil {
		text = buf.String()
	}

	runes := []rune(text)
	if query != "" {
		needle := []rune(strings.ToLower(query))
		if idx := indexFold(runes, needle); idx >= 0 {
			start := idx - snippetContext
			if start < 0 {
				start = 0
			}
			end := idx + len(needle) + snippetContext
			if end > len(runes) {
				end = len(runes)
			}
			return string(runes[start:end]) + "..."
		}
	}

	if len(runes) > snippetFallbackLen {
		runes = runes[:snippetFallbackLen]
	}
	return string(runes) + "..."
}

// indexFold finds needle (already lower case) in haystack ignoring case.
func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if unicode.ToLower(haystack[i+j]) != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func (s *searchService) cacheKey(query entity.SearchQuery, settings entity.AISearchSettings) (string, time.Duration) {
	if s.resultCache == nil || settings.CacheDuration <= 0 {
		return "", 0
	}
	key, err := cache.Key(resultCachePrefix,
		strings.ToLower(query.Query), query.Mode, query.Filters, query.Limit, query.Offset,
		settings.SelectedCollections, settings.AIModeEnabled, settings.ResultsLimit,
	)
	if err != nil {
		return "", 0
	}
	return key, time.Duration(settings.CacheDuration) * time.Hour
}

func (s *searchService) cached(ctx context.Context, key string) *entity.SearchResponse {
	if key == "" {
		return nil
	}
	var res entity.SearchResponse
	if err := s.resultCache.Get(ctx, key, &res); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Debug(logger.ModuleSearch, "Result cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	return &res
}

func (s *searchService) logSearch(ctx context.Context, query string, res *entity.SearchResponse) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.SearchHistoryRepository().Create(ctx, &entity.SearchHistory{
		Id:           uuid.New(),
		Query:        query,
		Mode:         res.Mode,
		ResultsCount: len(res.Results),
		QueryTimeMs:  res.QueryTimeMs,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn(logger.ModuleSearch, "Failed to log search", map[string]interface{}{"error": err.Error()})
	}
}

func (s *searchService) Suggest(ctx context.Context, partial string) ([]string, error) {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < suggestMinChars {
		return []string{}, nil
	}

	settings := s.settingsService.Current(ctx)
	if !settings.AutocompleteEnabled {
		return []string{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	titles, err := uow.ContentChunkRepository().FindDistinctTitles(ctx, partial, suggestLimit)
	if err != nil {
		s.logger.Debug(logger.ModuleSearch, "Index titles unavailable for suggestions", map[string]interface{}{"error": err.Error()})
	}
	if titles = nonEmpty(titles); len(titles) > 0 {
		return titles, nil
	}

	queries, err := uow.SearchHistoryRepository().FindDistinctQueries(ctx, partial, suggestLimit)
	if err != nil {
		s.logger.Debug(logger.ModuleSearch, "History unavailable for suggestions", map[string]interface{}{"error": err.Error()})
		return []string{}, nil
	}
	return nonEmpty(queries), nil
}

func (s *searchService) DetectNewCollections(ctx context.Context) ([]dto.NewCollectionNotificationResponse, error) {
	settings := s.settingsService.Current(ctx)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collections, err := uow.CollectionRepository().FindAll(ctx, specification.ActiveCollections{})
	if err != nil {
		s.logger.Error(logger.ModuleSearch, "Failed to load collections", map[string]interface{}{"error": err.Error()})
		return []dto.NewCollectionNotificationResponse{}, nil
	}

	notifications := []dto.NewCollectionNotificationResponse{}
	for _, c := range collections {
		if isTestCollection(c.Name) || settings.IsSelected(c.Id) || settings.IsDismissed(c.Id) {
			continue
		}

		count, err := uow.ContentRepository().Count(ctx, specification.ByCollectionID{CollectionID: c.Id})
		if err != nil {
			s.logger.Error(logger.ModuleSearch, "Failed to count collection items", map[string]interface{}{"collection_id": c.Id, "error": err.Error()})
			return []dto.NewCollectionNotificationResponse{}, nil
		}

		info := collectionInfo(c, count, settings)
		notifications = append(notifications, dto.NewCollectionNotificationResponse{
			Collection: s.mapper.ToCollectionInfoResponse(info),
			Message:    fmt.Sprintf("New collection \"%s\" with %d items available for indexing", info.DisplayName, count),
		})
	}
	return notifications, nil
}

func (s *searchService) GetAllCollections(ctx context.Context) ([]dto.CollectionInfoResponse, error) {
	settings := s.settingsService.Current(ctx)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collections, err := uow.CollectionRepository().FindAll(ctx,
		specification.ActiveCollections{},
		specification.OrderBy{Field: "display_name"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CollectionInfoResponse, 0, len(collections))
	for _, c := range collections {
		count, err := uow.ContentRepository().Count(ctx, specification.ByCollectionID{CollectionID: c.Id})
		if err != nil {
			return nil, err
		}
		res = append(res, s.mapper.ToCollectionInfoResponse(collectionInfo(c, count, settings)))
	}
	return res, nil
}

func (s *searchService) GetAnalytics(ctx context.Context) (*dto.SearchAnalyticsResponse, error) {
	since := s.now().Add(-analyticsWindow)
	repo := s.uowFactory.NewUnitOfWork(ctx).SearchHistoryRepository()

	total, err := repo.CountSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byMode, err := repo.CountByModeSince(ctx, since)
	if err != nil {
		return nil, err
	}
	popular, err := repo.PopularSince(ctx, since, popularQueryLimit)
	if err != nil {
		return nil, err
	}
	avg, err := repo.AverageQueryTimeSince(ctx, since)
	if err != nil {
		return nil, err
	}

	return s.mapper.ToAnalyticsResponse(&entity.SearchAnalytics{
		TotalQueries:       total,
		AIQueries:          byMode[entity.SearchModeAI],
		KeywordQueries:     byMode[entity.SearchModeKeyword],
		PopularQueries:     popular,
		AverageQueryTimeMs: avg,
	}), nil
}

func collectionInfo(c *entity.Collection, count int64, settings entity.AISearchSettings) entity.CollectionInfo {
	displayName := c.DisplayName
	if displayName == "" {
		displayName = c.Name
	}
	indexed := settings.IsSelected(c.Id)
	dismissed := settings.IsDismissed(c.Id)
	return entity.CollectionInfo{
		Id:          c.Id,
		Name:        c.Name,
		DisplayName: displayName,
		Description: c.Description,
		ItemCount:   count,
		IsIndexed:   indexed,
		IsDismissed: dismissed,
		IsNew:       !indexed && !dismissed,
	}
}

var testCollectionNames = map[string]bool{
	"test_collection":    true,
	"large_payload_test": true,
	"concurrent_test":    true,
}

// isTestCollection hides fixtures created by test suites from notifications.
func isTestCollection(name string) bool {
	n := strings.ToLower(name)
	return strings.HasPrefix(n, "test_") ||
		strings.HasSuffix(n, "_test") ||
		strings.Contains(n, "_test_") ||
		testCollectionNames[n]
}

func emptyResponse(mode entity.SearchMode, elapsedMs int64) *entity.SearchResponse {
	return &entity.SearchResponse{
		Results:     []entity.SearchResult{},
		Total:       0,
		QueryTimeMs: elapsedMs,
		Mode:        mode,
	}
}

func nonEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
