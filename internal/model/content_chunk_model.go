package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContentChunk struct {
	Id             string          `gorm:"type:varchar(128);primaryKey"`
	ContentId      string          `gorm:"type:varchar(64);not null;index"`
	CollectionId   string          `gorm:"type:varchar(64);not null;index"`
	Title          string          `gorm:"type:varchar(255);index"`
	Text           string          `gorm:"type:text"`
	ChunkIndex     int             `gorm:"default:0"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	Metadata       datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (ContentChunk) TableName() string {
	return "content_chunks"
}

type ContentChunkRef struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContentId string    `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_chunk_ref"`
	ChunkId   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_chunk_ref"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ContentChunkRef) TableName() string {
	return "content_chunk_refs"
}
