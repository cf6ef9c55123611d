package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCacheSize at 768 dims * 4 bytes is roughly 6MB.
	DefaultCacheSize = 2000
	DefaultCacheTTL  = 24 * time.Hour
)

// CachedProvider keeps recent embeddings in memory for requests that carry a
// cache hint. Requests without a hint always reach the inner provider.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *expirable.LRU[string, []float32]
}

func NewCachedProvider(inner EmbeddingProvider, size int, ttl time.Duration) *CachedProvider {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		inner: inner,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// cacheKey separates task types since some providers embed them differently.
func cacheKey(text, taskType string) string {
	hash := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(hash[:])
}

func (c *CachedProvider) Generate(ctx context.Context, text string, opts GenerateOptions) (*EmbeddingResponse, error) {
	if opts.CacheTTL <= 0 {
		return c.inner.Generate(ctx, text, opts)
	}

	key := cacheKey(text, opts.TaskType)
	if vec, ok := c.cache.Get(key); ok {
		return NewEmbeddingResponse(vec), nil
	}

	res, err := c.inner.Generate(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, res.Embedding.Values)
	return res, nil
}

func (c *CachedProvider) Len() int {
	return c.cache.Len()
}
