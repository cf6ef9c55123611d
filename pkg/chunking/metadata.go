package chunking

// Recognised chunk metadata keys. Anything else is dropped by NewMetadata.
const (
	KeyTotalChunks           = "total_chunks"
	KeyStatus                = "status"
	KeyCreatedAt             = "created_at"
	KeyUpdatedAt             = "updated_at"
	KeyAuthorId              = "author_id"
	KeyCollectionName        = "collection_name"
	KeyCollectionDisplayName = "collection_display_name"
)

var knownKeys = map[string]struct{}{
	KeyTotalChunks:           {},
	KeyStatus:                {},
	KeyCreatedAt:             {},
	KeyUpdatedAt:             {},
	KeyAuthorId:              {},
	KeyCollectionName:        {},
	KeyCollectionDisplayName: {},
}

// Metadata is the typed key/value bag attached to every chunk.
type Metadata map[string]any

// NewMetadata keeps only the recognised keys with non-nil values.
func NewMetadata(values map[string]any) Metadata {
	meta := Metadata{}
	for k, v := range values {
		if _, ok := knownKeys[k]; !ok || v == nil {
			continue
		}
		meta[k] = v
	}
	return meta
}

func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func (m Metadata) Int(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
