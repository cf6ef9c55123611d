package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/pkg/chunking"
	"ai-search-be/pkg/embedding"
	"ai-search-be/pkg/vectorindex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNotAvailable = errors.New("search: semantic search not available")

var tracer = otel.Tracer("ai-search-be/pkg/rag/search")

// ContentSource is the slice of the content store the orchestrator reads.
type ContentSource interface {
	ListPublished(ctx context.Context, collectionId string) ([]*entity.Content, error)
	FindById(ctx context.Context, id string) (*entity.Content, error)
	FindByIds(ctx context.Context, ids []string) ([]*entity.Content, error)
}

// Config encapsulates indexing and search parameters
type Config struct {
	Chunking        chunking.Options
	UpsertBatchSize int
	TopK            int
	DefaultLimit    int
	MaxStoredText   int
}

func DefaultConfig() Config {
	return Config{
		Chunking:        chunking.DefaultOptions(),
		UpsertBatchSize: 100,
		TopK:            vectorindex.MaxTopK,
		DefaultLimit:    20,
		MaxStoredText:   500,
	}
}

type IndexResult struct {
	TotalItems    int
	TotalChunks   int
	IndexedChunks int
	Errors        int
}

// Orchestrator turns content into indexed chunks and answers semantic queries.
type Orchestrator struct {
	embedder *embedding.Client
	index    *vectorindex.Client
	content  ContentSource
	chunker  *chunking.Chunker
	config   Config
	logger   logger.ILogger
}

func NewOrchestrator(
	embedder *embedding.Client,
	index *vectorindex.Client,
	content ContentSource,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	if config.UpsertBatchSize <= 0 {
		config.UpsertBatchSize = 100
	}
	if config.TopK <= 0 {
		config.TopK = vectorindex.MaxTopK
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 20
	}
	if config.MaxStoredText <= 0 {
		config.MaxStoredText = 500
	}
	return &Orchestrator{
		embedder: embedder,
		index:    index,
		content:  content,
		chunker:  chunking.NewChunker(config.Chunking),
		config:   config,
		logger:   log,
	}
}

// Available reports whether both clients are configured and the embedding
// breaker is closed.
func (o *Orchestrator) Available() bool {
	return o != nil && o.embedder.Available() && o.index.Available()
}

func (o *Orchestrator) IndexCollection(ctx context.Context, collectionId string) (*IndexResult, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.IndexCollection")
	defer span.End()
	span.SetAttributes(attribute.String("collection_id", collectionId))

	if !o.Available() {
		return nil, ErrNotAvailable
	}

	records, err := o.content.ListPublished(ctx, collectionId)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection %s: %w", collectionId, err)
	}

	result := &IndexResult{TotalItems: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	items := make([]chunking.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, toItem(rec))
	}
	chunks := o.chunker.ChunkBatch(items)
	result.TotalChunks = len(chunks)

	o.logger.Info(logger.ModuleIndexer, "Chunked collection", map[string]interface{}{
		"collection_id": collectionId,
		"items":         len(records),
		"chunks":        len(chunks),
	})

	indexed, failed := o.embedAndUpsert(ctx, chunks)
	result.IndexedChunks = indexed
	result.Errors = failed

	span.SetAttributes(
		attribute.Int("chunks.total", result.TotalChunks),
		attribute.Int("chunks.indexed", result.IndexedChunks),
		attribute.Int("chunks.errors", result.Errors),
	)
	return result, nil
}

// UpdateContentIndex re-indexes one record. Unknown ids are ignored and
// records that are no longer published are removed from the index.
func (o *Orchestrator) UpdateContentIndex(ctx context.Context, contentId string) error {
	ctx, span := tracer.Start(ctx, "Orchestrator.UpdateContentIndex")
	defer span.End()

	if !o.Available() {
		return ErrNotAvailable
	}

	rec, err := o.content.FindById(ctx, contentId)
	if err != nil {
		return fmt.Errorf("failed to load content %s: %w", contentId, err)
	}
	if rec == nil {
		return nil
	}
	if rec.Status != entity.ContentStatusPublished {
		return o.RemoveContent(ctx, contentId)
	}

	previous, err := o.index.ChunkIds(ctx, contentId)
	if err != nil {
		return fmt.Errorf("failed to read chunk refs for %s: %w", contentId, err)
	}

	item := toItem(rec)
	chunks := o.chunker.Chunk(item.ContentId, item.CollectionId, item.Title, item.Data, item.Metadata)
	indexed, failed := o.embedAndUpsert(ctx, chunks)
	if failed > 0 {
		return fmt.Errorf("failed to index %d of %d chunks for %s", failed, len(chunks), contentId)
	}

	current := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		current[c.Id] = struct{}{}
	}
	var stale []string
	for _, id := range previous {
		if _, ok := current[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := o.index.DeleteChunks(ctx, stale); err != nil {
		return fmt.Errorf("failed to delete stale chunks for %s: %w", contentId, err)
	}

	o.logger.Info(logger.ModuleIndexer, "Content re-indexed", map[string]interface{}{
		"content_id": contentId,
		"chunks":     indexed,
		"stale":      len(stale),
	})
	return nil
}

func (o *Orchestrator) RemoveContent(ctx context.Context, contentId string) error {
	if o == nil || !o.index.Available() {
		return ErrNotAvailable
	}
	n, err := o.index.DeleteByContentId(ctx, contentId)
	if err != nil {
		return fmt.Errorf("failed to remove content %s: %w", contentId, err)
	}
	o.logger.Info(logger.ModuleIndexer, "Content removed from index", map[string]interface{}{
		"content_id": contentId,
		"chunks":     n,
	})
	return nil
}

// embedAndUpsert returns how many chunks were stored and how many failed.
// Failed embedding sub-batches and failed upsert batches are counted and skipped.
func (o *Orchestrator) embedAndUpsert(ctx context.Context, chunks []chunking.ContentChunk) (int, int) {
	var (
		records []vectorindex.Record
		failed  int
		indexed int
	)

	step := o.embedder.BatchSize()
	for start := 0; start < len(chunks); start += step {
		end := start + step
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Title + "\n\n" + c.Text
		}

		vectors, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			failed += len(batch)
			o.logger.Warn(logger.ModuleIndexer, "Embedding batch failed", map[string]interface{}{
				"offset": start,
				"size":   len(batch),
				"error":  err.Error(),
			})
			continue
		}
		for i, c := range batch {
			records = append(records, o.toRecord(c, vectors[i]))
		}
	}

	for start := 0; start < len(records); start += o.config.UpsertBatchSize {
		end := start + o.config.UpsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := o.index.Upsert(ctx, records[start:end]); err != nil {
			failed += end - start
			o.logger.Warn(logger.ModuleIndexer, "Upsert batch failed", map[string]interface{}{
				"offset": start,
				"size":   end - start,
				"error":  err.Error(),
			})
			continue
		}
		indexed += end - start
	}
	return indexed, failed
}

func (o *Orchestrator) toRecord(c chunking.ContentChunk, vector []float32) vectorindex.Record {
	meta := make(map[string]any, len(c.Metadata)+5)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	text := []rune(c.Text)
	if len(text) > o.config.MaxStoredText {
		text = text[:o.config.MaxStoredText]
	}
	meta[vectorindex.MetaContentId] = c.ContentId
	meta[vectorindex.MetaCollectionId] = c.CollectionId
	meta[vectorindex.MetaTitle] = c.Title
	meta[vectorindex.MetaText] = string(text)
	meta[vectorindex.MetaChunkIndex] = c.ChunkIndex

	return vectorindex.Record{Id: c.Id, Values: vector, Metadata: meta}
}

// Search answers a query semantically. Errors are returned so the caller can
// fall back to keyword search.
func (o *Orchestrator) Search(ctx context.Context, query entity.SearchQuery, settings entity.AISearchSettings) (*entity.SearchResponse, error) {
	ctx, span := tracer.Start(ctx, "Orchestrator.Search")
	defer span.End()

	start := time.Now()
	if !o.Available() {
		return nil, ErrNotAvailable
	}

	vector, err := o.embedder.Embed(ctx, query.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	// Native filters are not trusted; query broadly and filter here.
	matches, err := o.index.Query(ctx, vector, vectorindex.QueryOptions{
		TopK:           o.config.TopK,
		ReturnMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	matches = filterMatches(matches, allowedCollections(query, settings), query.Filters.Status)

	limit := query.Limit
	if limit <= 0 {
		limit = settings.ResultsLimit
	}
	if limit <= 0 {
		limit = o.config.DefaultLimit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	response := &entity.SearchResponse{
		Results: []entity.SearchResult{},
		Mode:    entity.SearchModeAI,
	}
	if len(matches) == 0 {
		response.QueryTimeMs = time.Since(start).Milliseconds()
		return response, nil
	}

	best := bestMatchPerContent(matches)
	ids := make([]string, 0, len(best))
	for id := range best {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records, err := o.content.FindByIds(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content: %w", err)
	}

	for _, rec := range records {
		m, ok := best[rec.Id]
		if !ok {
			continue
		}
		score := m.Score
		title := rec.Title
		if title == "" {
			title = "Untitled"
		}
		response.Results = append(response.Results, entity.SearchResult{
			Id:             rec.Id,
			Title:          title,
			Slug:           rec.Slug,
			CollectionId:   rec.CollectionId,
			CollectionName: rec.CollectionName,
			Snippet:        m.MetaString(vectorindex.MetaText),
			RelevanceScore: &score,
			Status:         rec.Status,
			CreatedAt:      rec.CreatedAt,
			UpdatedAt:      rec.UpdatedAt,
			AuthorName:     rec.AuthorName,
		})
	}

	sort.SliceStable(response.Results, func(i, j int) bool {
		return *response.Results[i].RelevanceScore > *response.Results[j].RelevanceScore
	})
	response.Total = len(response.Results)
	response.QueryTimeMs = time.Since(start).Milliseconds()

	span.SetAttributes(attribute.Int("results", response.Total))
	return response, nil
}

func allowedCollections(query entity.SearchQuery, settings entity.AISearchSettings) []string {
	if len(query.Filters.Collections) > 0 {
		return query.Filters.Collections
	}
	return settings.SelectedCollections
}

func filterMatches(matches []vectorindex.Match, collections, statuses []string) []vectorindex.Match {
	if len(collections) == 0 && len(statuses) == 0 {
		return matches
	}
	out := matches[:0:0]
	for _, m := range matches {
		if len(collections) > 0 && !contains(collections, m.MetaString(vectorindex.MetaCollectionId)) {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, m.MetaString(vectorindex.MetaStatus)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func bestMatchPerContent(matches []vectorindex.Match) map[string]vectorindex.Match {
	best := make(map[string]vectorindex.Match)
	for _, m := range matches {
		id := m.ContentId()
		if id == "" {
			continue
		}
		if cur, ok := best[id]; !ok || m.Score > cur.Score {
			best[id] = m
		}
	}
	return best
}

func toItem(rec *entity.Content) chunking.Item {
	return chunking.Item{
		ContentId:    rec.Id,
		CollectionId: rec.CollectionId,
		Title:        rec.Title,
		Data:         chunking.ParseData(rec.Data),
		Metadata: chunking.NewMetadata(map[string]any{
			chunking.KeyStatus:                rec.Status,
			chunking.KeyCreatedAt:             rec.CreatedAt.UTC().Format(time.RFC3339),
			chunking.KeyUpdatedAt:             rec.UpdatedAt.UTC().Format(time.RFC3339),
			chunking.KeyAuthorId:              rec.AuthorId,
			chunking.KeyCollectionName:        rec.CollectionSlug,
			chunking.KeyCollectionDisplayName: rec.CollectionName,
		}),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
