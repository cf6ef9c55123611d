package mapper

import (
	"encoding/json"

	"ai-search-be/internal/model"
	"ai-search-be/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContentChunkMapper struct{}

func NewContentChunkMapper() *ContentChunkMapper {
	return &ContentChunkMapper{}
}

// ToModel lifts the well-known metadata keys into columns and keeps the full
// metadata map in the jsonb column.
func (m *ContentChunkMapper) ToModel(r vectorindex.Record) (*model.ContentChunk, error) {
	meta, err := json.Marshal(r.Metadata)
	if err != nil {
		return nil, err
	}

	return &model.ContentChunk{
		Id:             r.Id,
		ContentId:      metaString(r.Metadata, vectorindex.MetaContentId),
		CollectionId:   metaString(r.Metadata, vectorindex.MetaCollectionId),
		Title:          metaString(r.Metadata, vectorindex.MetaTitle),
		Text:           metaString(r.Metadata, vectorindex.MetaText),
		ChunkIndex:     metaInt(r.Metadata, vectorindex.MetaChunkIndex),
		EmbeddingValue: pgvector.NewVector(r.Values),
		Metadata:       datatypes.JSON(meta),
	}, nil
}

func (m *ContentChunkMapper) ToMatch(c *model.ContentChunk, score float64, withMetadata bool) vectorindex.Match {
	match := vectorindex.Match{Id: c.Id, Score: score}
	if !withMetadata {
		return match
	}

	meta := make(map[string]any)
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &meta)
	}
	meta[vectorindex.MetaContentId] = c.ContentId
	meta[vectorindex.MetaCollectionId] = c.CollectionId
	meta[vectorindex.MetaTitle] = c.Title
	meta[vectorindex.MetaText] = c.Text
	meta[vectorindex.MetaChunkIndex] = c.ChunkIndex
	match.Metadata = meta
	return match
}

func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
