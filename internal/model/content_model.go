package model

import (
	"time"

	"gorm.io/datatypes"
)

type Content struct {
	Id           string         `gorm:"type:varchar(64);primaryKey"`
	CollectionId string         `gorm:"type:varchar(64);not null;index"`
	Title        string         `gorm:"type:varchar(255);not null"`
	Slug         string         `gorm:"type:varchar(255);index"`
	Data         datatypes.JSON `gorm:"type:jsonb"`
	Status       string         `gorm:"type:varchar(50);not null;default:'draft';index"`
	AuthorId     string         `gorm:"type:varchar(64);index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;index"`

	// Filled from joins, never written.
	CollectionSlug string `gorm:"->;-:migration"`
	CollectionName string `gorm:"->;-:migration"`
	AuthorName     string `gorm:"->;-:migration"`
}

func (Content) TableName() string {
	return "content"
}

type Collection struct {
	Id          string    `gorm:"type:varchar(64);primaryKey"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	DisplayName string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Collection) TableName() string {
	return "collections"
}
