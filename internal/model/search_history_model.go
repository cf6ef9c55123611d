package model

import (
	"time"

	"github.com/google/uuid"
)

type SearchHistory struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query        string    `gorm:"type:text;not null"`
	Mode         string    `gorm:"type:varchar(20);not null;index"`
	ResultsCount int       `gorm:"default:0"`
	QueryTimeMs  int64     `gorm:"default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (SearchHistory) TableName() string {
	return "ai_search_history"
}
