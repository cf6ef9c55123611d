package embedding

import (
	"context"
	"time"
)

// Task types understood by providers that distinguish documents from queries.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// GenerateOptions carries per-request hints. CacheTTL asks the provider (or a
// caching decorator) to keep the result for that long; zero disables caching.
type GenerateOptions struct {
	TaskType string
	CacheTTL time.Duration
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, opts GenerateOptions) (*EmbeddingResponse, error)
}
