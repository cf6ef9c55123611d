package contract

import (
	"context"

	"ai-search-be/pkg/vectorindex"
)

// ContentChunkRepository is the pgvector-backed vector index.
type ContentChunkRepository interface {
	vectorindex.Provider
	// FindDistinctTitles matches partial case-insensitively, alphabetical.
	FindDistinctTitles(ctx context.Context, partial string, limit int) ([]string, error)
	CountByCollection(ctx context.Context, collectionId string) (int64, error)
}

type ContentChunkRefRepository interface {
	vectorindex.ChunkRefStore
}
