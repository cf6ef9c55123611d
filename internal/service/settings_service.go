package service

import (
	"context"
	"time"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/internal/repository/unitofwork"

	gocache "github.com/patrickmn/go-cache"
)

const (
	settingsCacheTTL = 30 * time.Second
	settingsCacheKey = entity.AISearchSettingsKey
)

type ISettingsService interface {
	// Current never fails: a missing or unreadable row yields defaults.
	Current(ctx context.Context) entity.AISearchSettings
	GetSettings(ctx context.Context) (*dto.AISearchSettingsResponse, error)
	UpdateSettings(ctx context.Context, req *dto.UpdateAISearchSettingsRequest) (*dto.AISearchSettingsResponse, error)
}

type settingsService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	cache            *gocache.Cache
	mapper           *mapper.SearchMapper
	logger           logger.ILogger
}

func NewSettingsService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) ISettingsService {
	return &settingsService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		cache:            gocache.New(settingsCacheTTL, time.Minute),
		mapper:           mapper.NewSearchMapper(),
		logger:           log,
	}
}

func (s *settingsService) Current(ctx context.Context) entity.AISearchSettings {
	if v, ok := s.cache.Get(settingsCacheKey); ok {
		return v.(entity.AISearchSettings)
	}

	settings, err := s.load(ctx)
	if err != nil {
		s.logger.Warn(logger.ModuleSettings, "Failed to load settings, using defaults", map[string]interface{}{"error": err.Error()})
		return entity.DefaultAISearchSettings()
	}

	s.cache.SetDefault(settingsCacheKey, settings)
	return settings
}

func (s *settingsService) load(ctx context.Context) (entity.AISearchSettings, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.SettingsRepository().Get(ctx, entity.AISearchSettingsKey)
	if err != nil {
		return entity.AISearchSettings{}, err
	}
	if stored == nil {
		return entity.DefaultAISearchSettings(), nil
	}
	return *stored, nil
}

func (s *settingsService) GetSettings(ctx context.Context) (*dto.AISearchSettingsResponse, error) {
	return s.mapper.ToSettingsResponse(s.Current(ctx)), nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, req *dto.UpdateAISearchSettingsRequest) (*dto.AISearchSettingsResponse, error) {
	existing, err := s.load(ctx)
	if err != nil {
		s.logger.Warn(logger.ModuleSettings, "Stored settings unreadable, merging over defaults", map[string]interface{}{"error": err.Error()})
		existing = entity.DefaultAISearchSettings()
	}

	updated := s.mapper.MergeSettings(existing, req)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SettingsRepository().Set(ctx, entity.AISearchSettingsKey, &updated); err != nil {
		return nil, err
	}
	s.cache.Delete(settingsCacheKey)

	s.logger.Info(logger.ModuleSettings, "Settings updated", map[string]interface{}{
		"enabled":              updated.Enabled,
		"ai_mode_enabled":      updated.AIModeEnabled,
		"selected_collections": updated.SelectedCollections,
	})

	if !sameCollections(existing.SelectedCollections, updated.SelectedCollections) && len(updated.SelectedCollections) > 0 {
		job := dto.IndexJobMessage{Kind: dto.IndexJobSync, CollectionIds: updated.SelectedCollections}
		if err := s.publisherService.PublishIndexJob(ctx, job); err != nil {
			s.logger.Error(logger.ModuleSettings, "Failed to enqueue sync after settings update", map[string]interface{}{"error": err.Error()})
		}
	}

	return s.mapper.ToSettingsResponse(updated), nil
}

// sameCollections compares as sets.
func sameCollections(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
