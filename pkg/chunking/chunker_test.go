package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestChunk_TwelveHundredWords(t *testing.T) {
	c := NewChunker(DefaultOptions())
	data := map[string]any{"body": words(1200)}

	chunks := c.Chunk("c1", "col1", "Title", data, nil)

	require.Len(t, chunks, 3)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
		assert.Equal(t, fmt.Sprintf("c1_chunk_%d", i), ch.Id)
		assert.Equal(t, 3, ch.Metadata.Int(KeyTotalChunks))
		assert.Equal(t, "col1", ch.CollectionId)
	}
	assert.Len(t, strings.Fields(chunks[0].Text), 500)
	assert.Len(t, strings.Fields(chunks[1].Text), 500)
	assert.Len(t, strings.Fields(chunks[2].Text), 300)
}

func TestChunk_ConsecutiveChunksOverlap(t *testing.T) {
	tests := []struct {
		name      string
		wordCount int
		size      int
		overlap   int
	}{
		{"default sizes", 1200, 500, 50},
		{"tail inside overlap", 990, 500, 50},
		{"tail equal overlap", 950, 500, 50},
		{"small windows", 97, 10, 3},
		{"exact multiple", 1400, 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunker(Options{ChunkSize: tt.size, Overlap: tt.overlap})
			chunks := c.Chunk("id", "col", "t", map[string]any{"content": words(tt.wordCount)}, nil)
			require.Greater(t, len(chunks), 1)

			for i := 1; i < len(chunks); i++ {
				prev := strings.Fields(chunks[i-1].Text)
				cur := strings.Fields(chunks[i].Text)
				assert.Equal(t, prev[len(prev)-tt.overlap:], cur[:tt.overlap], "chunk %d overlap", i)
			}

			last := strings.Fields(chunks[len(chunks)-1].Text)
			assert.Greater(t, len(last), tt.overlap)
			assert.Equal(t, fmt.Sprintf("w%d", tt.wordCount-1), last[len(last)-1])
		})
	}
}

func TestChunk_ShortTextIsSingleChunk(t *testing.T) {
	c := NewChunker(DefaultOptions())
	chunks := c.Chunk("c1", "col1", "Title", map[string]any{"title": "Hello world"}, nil)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello world", chunks[0].Text)
	assert.Equal(t, 1, chunks[0].Metadata.Int(KeyTotalChunks))
}

func TestChunk_EmptyTextYieldsNothing(t *testing.T) {
	c := NewChunker(DefaultOptions())

	assert.Empty(t, c.Chunk("c1", "col1", "Title", nil, nil))
	assert.Empty(t, c.Chunk("c1", "col1", "Title", map[string]any{"image_url": "https://x.test/a.png"}, nil))
}

func TestChunk_Deterministic(t *testing.T) {
	c := NewChunker(DefaultOptions())
	data := map[string]any{"body": words(700), "extra": map[string]any{"note": "a longer nested sentence"}}

	first := c.Chunk("c9", "col", "T", data, nil)
	second := c.Chunk("c9", "col", "T", data, nil)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id)
		assert.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestChunk_MetadataIsCopiedPerChunk(t *testing.T) {
	c := NewChunker(Options{ChunkSize: 10, Overlap: 2})
	meta := NewMetadata(map[string]any{KeyStatus: "published", "unknown": "dropped"})

	chunks := c.Chunk("c1", "col", "T", map[string]any{"body": words(30)}, meta)

	require.NotEmpty(t, chunks)
	assert.NotContains(t, meta, KeyTotalChunks)
	assert.NotContains(t, chunks[0].Metadata, "unknown")
	assert.Equal(t, "published", chunks[0].Metadata.String(KeyStatus))
}

func TestChunkBatch_SkipsEmptyRecords(t *testing.T) {
	c := NewChunker(DefaultOptions())
	items := []Item{
		{ContentId: "a", CollectionId: "col", Title: "A", Data: map[string]any{"body": "first record body"}},
		{ContentId: "b", CollectionId: "col", Title: "B", Data: map[string]any{}},
		{ContentId: "c", CollectionId: "col", Title: "C", Data: map[string]any{"body": "third record body"}},
	}

	chunks := c.ChunkBatch(items)

	require.Len(t, chunks, 2)
	assert.Equal(t, "a_chunk_0", chunks[0].Id)
	assert.Equal(t, "c_chunk_0", chunks[1].Id)
}

func TestNewChunker_InvalidOptionsFallBack(t *testing.T) {
	c := NewChunker(Options{ChunkSize: 10, Overlap: 10})
	assert.Equal(t, DefaultChunkSize, c.chunkSize)
	assert.Equal(t, DefaultOverlap, c.overlap)
}
