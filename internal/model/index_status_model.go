package model

import (
	"time"

	"github.com/google/uuid"
)

type IndexStatus struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CollectionId   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	CollectionName string    `gorm:"type:varchar(255)"`
	TotalItems     int       `gorm:"default:0"`
	IndexedItems   int       `gorm:"default:0"`
	LastSyncAt     *time.Time
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'"`
	ErrorMessage   *string   `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (IndexStatus) TableName() string {
	return "ai_search_index_status"
}
