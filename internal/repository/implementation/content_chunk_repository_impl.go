package implementation

import (
	"context"

	"ai-search-be/internal/mapper"
	"ai-search-be/internal/model"
	"ai-search-be/internal/repository/contract"
	"ai-search-be/internal/repository/specification"
	"ai-search-be/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const chunkUpsertBatch = 100

// ContentChunkRepositoryImpl is the pgvector provider of the vector index.
type ContentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentChunkMapper
}

func NewContentChunkRepository(db *gorm.DB) contract.ContentChunkRepository {
	return &ContentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentChunkMapper(),
	}
}

func (r *ContentChunkRepositoryImpl) Upsert(ctx context.Context, records []vectorindex.Record) error {
	if len(records) == 0 {
		return nil
	}

	models := make([]*model.ContentChunk, 0, len(records))
	for _, rec := range records {
		m, err := r.mapper.ToModel(rec)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content_id", "collection_id", "title", "text",
				"chunk_index", "embedding_value", "metadata", "updated_at",
			}),
		}).
		CreateInBatches(models, chunkUpsertBatch).Error
}

// Query ranks by cosine similarity: 1 - (embedding_value <=> query).
func (r *ContentChunkRepositoryImpl) Query(ctx context.Context, vector []float32, opts vectorindex.QueryOptions) ([]vectorindex.Match, error) {
	type result struct {
		model.ContentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	query := r.db.WithContext(ctx).
		Table("content_chunks").
		Select("content_chunks.*, 1 - (embedding_value <=> ?) AS similarity", queryVector)
	query = r.applyFilter(query, opts.Filter)

	err := query.
		Order("similarity DESC").
		Limit(opts.TopK).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, len(results))
	for i := range results {
		matches[i] = r.mapper.ToMatch(&results[i].ContentChunk, results[i].Similarity, opts.ReturnMetadata)
	}
	return matches, nil
}

func (r *ContentChunkRepositoryImpl) applyFilter(db *gorm.DB, filter map[string][]string) *gorm.DB {
	for key, values := range filter {
		if len(values) == 0 {
			continue
		}
		switch key {
		case vectorindex.MetaContentId, vectorindex.MetaCollectionId:
			db = db.Where(key+" IN ?", values)
		default:
			db = db.Where("metadata->>? IN ?", key, values)
		}
	}
	return db
}

func (r *ContentChunkRepositoryImpl) DeleteByIds(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.ContentChunk{}).Error
}

func (r *ContentChunkRepositoryImpl) FindDistinctTitles(ctx context.Context, partial string, limit int) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&model.ContentChunk{}).
		Distinct("title").
		Where(`title ILIKE ? ESCAPE '\'`, specification.ContainsPattern(partial)).
		Order("title ASC").
		Limit(limit).
		Pluck("title", &titles).Error
	return titles, err
}

func (r *ContentChunkRepositoryImpl) CountByCollection(ctx context.Context, collectionId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ContentChunk{}).
		Where("collection_id = ?", collectionId).
		Count(&count).Error
	return count, err
}

type ContentChunkRefRepositoryImpl struct {
	db *gorm.DB
}

func NewContentChunkRefRepository(db *gorm.DB) contract.ContentChunkRefRepository {
	return &ContentChunkRefRepositoryImpl{db: db}
}

func (r *ContentChunkRefRepositoryImpl) AddChunkRefs(ctx context.Context, contentId string, chunkIds []string) error {
	if len(chunkIds) == 0 {
		return nil
	}
	refs := make([]*model.ContentChunkRef, len(chunkIds))
	for i, id := range chunkIds {
		refs[i] = &model.ContentChunkRef{ContentId: contentId, ChunkId: id}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(refs).Error
}

func (r *ContentChunkRefRepositoryImpl) FindChunkIds(ctx context.Context, contentId string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ContentChunkRef{}).
		Where("content_id = ?", contentId).
		Order("chunk_id ASC").
		Pluck("chunk_id", &ids).Error
	return ids, err
}

func (r *ContentChunkRefRepositoryImpl) RemoveChunkRefs(ctx context.Context, chunkIds []string) error {
	if len(chunkIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("chunk_id IN ?", chunkIds).Delete(&model.ContentChunkRef{}).Error
}
