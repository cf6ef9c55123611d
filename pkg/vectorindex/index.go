package vectorindex

import (
	"context"
	"errors"
	"fmt"
)

const (
	// MaxTopK is the largest result window the index returns with metadata.
	MaxTopK = 50

	MetaContentId    = "content_id"
	MetaCollectionId = "collection_id"
	MetaTitle        = "title"
	MetaText         = "text"
	MetaChunkIndex   = "chunk_index"
	MetaStatus       = "status"
)

var ErrInvalidRecord = errors.New("vectorindex: invalid record")

type Record struct {
	Id       string
	Values   []float32
	Metadata map[string]any
}

type Match struct {
	Id       string
	Score    float64
	Metadata map[string]any
}

// ContentId reads the owning content id from the match metadata.
func (m Match) ContentId() string {
	s, _ := m.Metadata[MetaContentId].(string)
	return s
}

func (m Match) MetaString(key string) string {
	s, _ := m.Metadata[key].(string)
	return s
}

// QueryOptions.Filter maps a metadata key to its allowed values. Providers may
// ignore it; callers that need correctness post-filter the matches.
type QueryOptions struct {
	TopK           int
	Filter         map[string][]string
	ReturnMetadata bool
}

// Provider is the external vector store.
type Provider interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, opts QueryOptions) ([]Match, error)
	DeleteByIds(ctx context.Context, ids []string) error
}

// ChunkRefStore tracks which chunk ids belong to a content record so removal
// can target exact ids.
type ChunkRefStore interface {
	AddChunkRefs(ctx context.Context, contentId string, chunkIds []string) error
	FindChunkIds(ctx context.Context, contentId string) ([]string, error)
	RemoveChunkRefs(ctx context.Context, chunkIds []string) error
}

// Client is the narrow contract the indexing orchestrator talks to.
type Client struct {
	provider Provider
	refs     ChunkRefStore
}

func NewClient(provider Provider, refs ChunkRefStore) *Client {
	return &Client{
		provider: provider,
		refs:     refs,
	}
}

func (c *Client) Available() bool {
	return c != nil && c.provider != nil
}

// Upsert writes records, overwriting any record with the same id, and records
// the chunk ids against their content id.
func (c *Client) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	byContent := make(map[string][]string)
	for _, r := range records {
		if r.Id == "" || len(r.Values) == 0 {
			return fmt.Errorf("%w: id=%q dims=%d", ErrInvalidRecord, r.Id, len(r.Values))
		}
		if contentId, _ := r.Metadata[MetaContentId].(string); contentId != "" {
			byContent[contentId] = append(byContent[contentId], r.Id)
		}
	}

	if err := c.provider.Upsert(ctx, records); err != nil {
		return err
	}

	if c.refs == nil {
		return nil
	}
	for contentId, ids := range byContent {
		if err := c.refs.AddChunkRefs(ctx, contentId, ids); err != nil {
			return fmt.Errorf("failed to record chunk refs for %s: %w", contentId, err)
		}
	}
	return nil
}

// Query clamps TopK into [1, MaxTopK].
func (c *Client) Query(ctx context.Context, vector []float32, opts QueryOptions) ([]Match, error) {
	if opts.TopK <= 0 || opts.TopK > MaxTopK {
		opts.TopK = MaxTopK
	}
	return c.provider.Query(ctx, vector, opts)
}

// DeleteByContentId removes every chunk recorded for the content. Content that
// was never indexed is a no-op.
func (c *Client) DeleteByContentId(ctx context.Context, contentId string) (int, error) {
	if c.refs == nil {
		return 0, nil
	}
	ids, err := c.refs.FindChunkIds(ctx, contentId)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := c.DeleteChunks(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// DeleteChunks removes exact chunk ids, e.g. chunks left over after a record shrank.
func (c *Client) DeleteChunks(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.provider.DeleteByIds(ctx, ids); err != nil {
		return err
	}
	if c.refs != nil {
		return c.refs.RemoveChunkRefs(ctx, ids)
	}
	return nil
}

// ChunkIds lists the chunk ids currently recorded for a content record.
func (c *Client) ChunkIds(ctx context.Context, contentId string) ([]string, error) {
	if c.refs == nil {
		return nil, nil
	}
	return c.refs.FindChunkIds(ctx, contentId)
}
