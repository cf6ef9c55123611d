package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/entity"
	"ai-search-be/internal/mapper"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/internal/repository/specification"
	"ai-search-be/internal/repository/unitofwork"
	"ai-search-be/pkg/indexevents"
	"ai-search-be/pkg/rag/search"

	"golang.org/x/sync/singleflight"
)

var ErrCollectionNotFound = errors.New("collection not found")

const unavailableIndexMessage = "semantic search not available - using keyword search only"

// Indexer is the part of the orchestrator the index service drives.
type Indexer interface {
	Available() bool
	IndexCollection(ctx context.Context, collectionId string) (*search.IndexResult, error)
	UpdateContentIndex(ctx context.Context, contentId string) error
	RemoveContent(ctx context.Context, contentId string) error
}

type IIndexService interface {
	GetStatus(ctx context.Context, collectionId string) (*entity.IndexStatus, error)
	GetAllStatuses(ctx context.Context) (map[string]*entity.IndexStatus, error)
	GetAllIndexStatus(ctx context.Context) (map[string]dto.IndexStatusResponse, error)
	SetStatus(ctx context.Context, status *entity.IndexStatus) error
	IndexCollection(ctx context.Context, collectionId string) (*entity.IndexStatus, error)
	SyncAll(ctx context.Context, collectionIds []string)
	Reindex(ctx context.Context, req *dto.ReindexRequest) (*dto.ReindexResponse, error)
	UpdateContentIndex(ctx context.Context, contentId string) error
	RemoveContent(ctx context.Context, contentId string) error
}

type indexService struct {
	uowFactory       unitofwork.RepositoryFactory
	indexer          Indexer
	publisherService IPublisherService
	events           indexevents.Publisher
	runs             singleflight.Group
	mapper           *mapper.SearchMapper
	logger           logger.ILogger
}

func NewIndexService(
	uowFactory unitofwork.RepositoryFactory,
	indexer Indexer,
	publisherService IPublisherService,
	events indexevents.Publisher,
	log logger.ILogger,
) IIndexService {
	return &indexService{
		uowFactory:       uowFactory,
		indexer:          indexer,
		publisherService: publisherService,
		events:           events,
		mapper:           mapper.NewSearchMapper(),
		logger:           log,
	}
}

func (s *indexService) GetStatus(ctx context.Context, collectionId string) (*entity.IndexStatus, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.IndexStatusRepository().FindByCollectionId(ctx, collectionId)
}

func (s *indexService) GetAllStatuses(ctx context.Context) (map[string]*entity.IndexStatus, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	statuses, err := uow.IndexStatusRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*entity.IndexStatus, len(statuses))
	for _, st := range statuses {
		out[st.CollectionId] = st
	}
	return out, nil
}

func (s *indexService) GetAllIndexStatus(ctx context.Context) (map[string]dto.IndexStatusResponse, error) {
	statuses, err := s.GetAllStatuses(ctx)
	if err != nil {
		return nil, err
	}

	res := make(map[string]dto.IndexStatusResponse, len(statuses))
	for id, st := range statuses {
		res[id] = s.mapper.ToIndexStatusResponse(st)
	}
	return res, nil
}

func (s *indexService) SetStatus(ctx context.Context, status *entity.IndexStatus) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.IndexStatusRepository().Upsert(ctx, status)
}

// IndexCollection runs one index pass. Concurrent calls for the same
// collection share the in-flight run.
func (s *indexService) IndexCollection(ctx context.Context, collectionId string) (*entity.IndexStatus, error) {
	v, err, shared := s.runs.Do(collectionId, func() (interface{}, error) {
		return s.indexCollection(ctx, collectionId)
	})
	if shared {
		s.logger.Debug(logger.ModuleIndexer, "Joined in-flight index run", map[string]interface{}{"collection_id": collectionId})
	}

	status, _ := v.(*entity.IndexStatus)
	return status, err
}

func (s *indexService) indexCollection(ctx context.Context, collectionId string) (*entity.IndexStatus, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	collection, err := uow.CollectionRepository().FindOne(ctx, specification.ByID{ID: collectionId})
	if err == nil && collection == nil {
		err = fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionId)
	}
	if err != nil {
		return s.fail(ctx, &entity.IndexStatus{CollectionId: collectionId, CollectionName: "Unknown"}, err)
	}

	name := collection.DisplayName
	if name == "" {
		name = collection.Name
	}

	status := &entity.IndexStatus{
		CollectionId:   collectionId,
		CollectionName: name,
		Status:         entity.IndexStateIndexing,
	}
	if err := s.SetStatus(ctx, status); err != nil {
		return nil, err
	}

	s.logger.Info(logger.ModuleIndexer, "Indexing collection", map[string]interface{}{"collection_id": collectionId, "name": name})

	now := time.Now()
	if !s.indexer.Available() {
		status.Status = entity.IndexStateCompleted
		status.ErrorMessage = unavailableIndexMessage
		status.LastSyncAt = &now
		if err := s.SetStatus(ctx, status); err != nil {
			return nil, err
		}
		s.logger.Warn(logger.ModuleIndexer, "Semantic indexing unavailable, skipped", map[string]interface{}{"collection_id": collectionId})
		return status, nil
	}

	result, err := s.indexer.IndexCollection(ctx, collectionId)
	if err != nil {
		return s.fail(ctx, status, err)
	}

	status.TotalItems = result.TotalItems
	status.IndexedItems = result.IndexedChunks
	status.LastSyncAt = &now
	status.Status = entity.IndexStateCompleted
	if result.Errors > 0 {
		status.Status = entity.IndexStateError
		status.ErrorMessage = fmt.Sprintf("%d errors during indexing", result.Errors)
	}

	if err := s.SetStatus(ctx, status); err != nil {
		return nil, err
	}

	details := map[string]interface{}{
		"collection_id":  collectionId,
		"total_items":    result.TotalItems,
		"total_chunks":   result.TotalChunks,
		"indexed_chunks": result.IndexedChunks,
		"errors":         result.Errors,
	}
	if status.Status == entity.IndexStateError {
		s.logger.Warn(logger.ModuleIndexer, "Indexing finished with errors", details)
		s.events.PublishIndexFailed(ctx, *status)
	} else {
		s.logger.Info(logger.ModuleIndexer, "Indexing completed", details)
		s.events.PublishIndexCompleted(ctx, *status)
	}
	return status, nil
}

func (s *indexService) fail(ctx context.Context, status *entity.IndexStatus, cause error) (*entity.IndexStatus, error) {
	status.Status = entity.IndexStateError
	status.ErrorMessage = cause.Error()
	status.TotalItems = 0
	status.IndexedItems = 0

	if err := s.SetStatus(ctx, status); err != nil {
		s.logger.Error(logger.ModuleIndexer, "Failed to record error status", map[string]interface{}{"collection_id": status.CollectionId, "error": err.Error()})
	}
	s.logger.Error(logger.ModuleIndexer, "Indexing failed", map[string]interface{}{"collection_id": status.CollectionId, "error": cause.Error()})
	s.events.PublishIndexFailed(ctx, *status)
	return status, cause
}

func (s *indexService) SyncAll(ctx context.Context, collectionIds []string) {
	for _, id := range collectionIds {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.IndexCollection(ctx, id); err != nil {
			s.logger.Error(logger.ModuleIndexer, "Sync failed for collection", map[string]interface{}{"collection_id": id, "error": err.Error()})
		}
	}
}

func (s *indexService) Reindex(ctx context.Context, req *dto.ReindexRequest) (*dto.ReindexResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	collection, err := uow.CollectionRepository().FindOne(ctx, specification.ByID{ID: req.CollectionId})
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, ErrCollectionNotFound
	}

	job := dto.IndexJobMessage{Kind: dto.IndexJobCollection, CollectionIds: []string{req.CollectionId}}
	if err := s.publisherService.PublishIndexJob(ctx, job); err != nil {
		return nil, err
	}

	return &dto.ReindexResponse{CollectionId: req.CollectionId, Queued: true}, nil
}

func (s *indexService) UpdateContentIndex(ctx context.Context, contentId string) error {
	if !s.indexer.Available() {
		s.logger.Debug(logger.ModuleIndexer, "Semantic indexing unavailable, content update skipped", map[string]interface{}{"content_id": contentId})
		return nil
	}

	if err := s.indexer.UpdateContentIndex(ctx, contentId); err != nil {
		return err
	}

	s.touchLastSync(ctx, contentId)
	return nil
}

func (s *indexService) RemoveContent(ctx context.Context, contentId string) error {
	if !s.indexer.Available() {
		s.logger.Debug(logger.ModuleIndexer, "Semantic indexing unavailable, removal skipped", map[string]interface{}{"content_id": contentId})
		return nil
	}
	return s.indexer.RemoveContent(ctx, contentId)
}

// touchLastSync bumps last_sync_at on the collection holding contentId.
// Collections that were never indexed have no row and are left alone.
func (s *indexService) touchLastSync(ctx context.Context, contentId string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	content, err := uow.ContentRepository().FindById(ctx, contentId)
	if err != nil || content == nil {
		return
	}

	status, err := uow.IndexStatusRepository().FindByCollectionId(ctx, content.CollectionId)
	if err != nil || status == nil {
		return
	}

	now := time.Now()
	status.LastSyncAt = &now
	if err := uow.IndexStatusRepository().Upsert(ctx, status); err != nil {
		s.logger.Warn(logger.ModuleIndexer, "Failed to update last sync time", map[string]interface{}{"collection_id": status.CollectionId, "error": err.Error()})
	}
}
