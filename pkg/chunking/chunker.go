package chunking

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize = 500 // words
	DefaultOverlap   = 50  // words
)

// ContentChunk is a bounded slice of a content record's text, embedded and indexed on its own.
type ContentChunk struct {
	Id           string
	ContentId    string
	CollectionId string
	Title        string
	Text         string
	ChunkIndex   int
	Metadata     Metadata
}

// Item is a single content record fed to ChunkBatch.
type Item struct {
	ContentId    string
	CollectionId string
	Title        string
	Data         map[string]any
	Metadata     Metadata
}

type Options struct {
	ChunkSize int
	Overlap   int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize: DefaultChunkSize,
		Overlap:   DefaultOverlap,
	}
}

// Chunker splits extracted record text into overlapping word windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(opts Options) *Chunker {
	if opts.ChunkSize <= 0 || opts.Overlap < 0 || opts.Overlap >= opts.ChunkSize {
		opts = DefaultOptions()
	}
	return &Chunker{
		chunkSize: opts.ChunkSize,
		overlap:   opts.Overlap,
	}
}

// ChunkId is deterministic so re-indexing overwrites instead of duplicating.
func ChunkId(contentId string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", contentId, index)
}

// Chunk extracts the text of a record and splits it. An empty result means
// there is nothing to index, it is not an error.
func (c *Chunker) Chunk(contentId, collectionId, title string, data map[string]any, metadata Metadata) []ContentChunk {
	text := ExtractText(data)
	if text == "" {
		return []ContentChunk{}
	}

	windows := c.split(strings.Fields(text))
	chunks := make([]ContentChunk, 0, len(windows))
	for i, window := range windows {
		meta := metadata.Clone()
		meta[KeyTotalChunks] = len(windows)

		chunks = append(chunks, ContentChunk{
			Id:           ChunkId(contentId, i),
			ContentId:    contentId,
			CollectionId: collectionId,
			Title:        title,
			Text:         window,
			ChunkIndex:   i,
			Metadata:     meta,
		})
	}
	return chunks
}

// ChunkBatch chunks every item and flattens the result. Items without text
// contribute nothing.
func (c *Chunker) ChunkBatch(items []Item) []ContentChunk {
	var all []ContentChunk
	for _, item := range items {
		all = append(all, c.Chunk(item.ContentId, item.CollectionId, item.Title, item.Data, item.Metadata)...)
	}
	return all
}

// split produces windows of chunkSize words with a stride of chunkSize-overlap.
// A window whose words would all fall inside the overlap of the previous one
// is never emitted, the previous window already covers the tail.
func (c *Chunker) split(words []string) []string {
	if len(words) == 0 {
		return nil
	}
	if len(words) <= c.chunkSize {
		return []string{strings.Join(words, " ")}
	}

	stride := c.chunkSize - c.overlap
	var windows []string
	for start := 0; start < len(words); start += stride {
		if start > 0 && len(words)-start <= c.overlap {
			break
		}
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return windows
}
