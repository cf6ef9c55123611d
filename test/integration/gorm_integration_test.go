package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/model"
	"ai-search-be/internal/repository/unitofwork"
	"ai-search-be/pkg/database"
	"ai-search-be/pkg/vectorindex"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, logger.Warn)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Collection{},
		&model.Content{},
		&model.PluginSetting{},
		&model.IndexStatus{},
		&model.SearchHistory{},
		&model.ContentChunk{},
		&model.ContentChunkRef{},
	))
	return db
}

func TestRepositories(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	suffix := uuid.NewString()[:8]
	collectionId := "it-" + suffix
	contentId := "it-content-" + suffix

	t.Cleanup(func() {
		db.Where("collection_id = ?", collectionId).Delete(&model.Content{})
		db.Where("collection_id = ?", collectionId).Delete(&model.ContentChunk{})
		db.Where("content_id = ?", contentId).Delete(&model.ContentChunkRef{})
		db.Where("collection_id = ?", collectionId).Delete(&model.IndexStatus{})
		db.Where("id = ?", collectionId).Delete(&model.Collection{})
	})

	t.Run("content joins collection name", func(t *testing.T) {
		require.NoError(t, uow.CollectionRepository().Create(ctx, &entity.Collection{
			Id: collectionId, Name: collectionId, DisplayName: "Integration", IsActive: true,
		}))
		require.NoError(t, uow.ContentRepository().Create(ctx, &entity.Content{
			Id:           contentId,
			CollectionId: collectionId,
			Title:        "Retry budgets",
			Data:         `{"body":"exponential backoff with jitter"}`,
			Status:       entity.ContentStatusPublished,
		}))

		got, err := uow.ContentRepository().FindById(ctx, contentId)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Integration", got.CollectionName)
		assert.Equal(t, collectionId, got.CollectionSlug)

		published, err := uow.ContentRepository().ListPublished(ctx, collectionId)
		require.NoError(t, err)
		assert.Len(t, published, 1)
	})

	t.Run("index status upsert is per collection", func(t *testing.T) {
		repo := uow.IndexStatusRepository()
		now := time.Now().UTC()

		require.NoError(t, repo.Upsert(ctx, &entity.IndexStatus{
			CollectionId: collectionId, CollectionName: "Integration", Status: entity.IndexStateIndexing,
		}))
		require.NoError(t, repo.Upsert(ctx, &entity.IndexStatus{
			CollectionId: collectionId, CollectionName: "Integration", Status: entity.IndexStateCompleted,
			TotalItems: 1, IndexedItems: 1, LastSyncAt: &now,
		}))

		got, err := repo.FindByCollectionId(ctx, collectionId)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, entity.IndexStateCompleted, got.Status)
		assert.Equal(t, 1, got.IndexedItems)
	})

	t.Run("pgvector round trip", func(t *testing.T) {
		index := vectorindex.NewClient(uow.ContentChunkRepository(), uow.ContentChunkRefRepository())
		vector := make([]float32, 768)
		vector[0] = 1

		require.NoError(t, index.Upsert(ctx, []vectorindex.Record{{
			Id:     contentId + "_chunk_0",
			Values: vector,
			Metadata: map[string]any{
				"content_id":    contentId,
				"collection_id": collectionId,
				"title":         "Retry budgets",
				"text":          "exponential backoff with jitter",
				"chunk_index":   0,
			},
		}}))

		matches, err := index.Query(ctx, vector, vectorindex.QueryOptions{
			TopK:           5,
			Filter:         map[string][]string{"collection_id": {collectionId}},
			ReturnMetadata: true,
		})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		assert.Equal(t, contentId, matches[0].ContentId())

		removed, err := index.DeleteByContentId(ctx, contentId)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}
