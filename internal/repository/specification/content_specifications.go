package specification

import (
	"time"

	"gorm.io/gorm"
)

// Content queries join collections and users, so columns are qualified.

type ContentByID struct {
	ID string
}

func (s ContentByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.id = ?", s.ID)
}

type ContentByIDs struct {
	IDs []string
}

func (s ContentByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.id IN ?", s.IDs)
}

type ByCollectionID struct {
	CollectionID string
}

func (s ByCollectionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.collection_id = ?", s.CollectionID)
}

type ByCollectionIDs struct {
	CollectionIDs []string
}

func (s ByCollectionIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.collection_id IN ?", s.CollectionIDs)
}

type ByStatuses struct {
	Statuses []string
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.status IN ?", s.Statuses)
}

type ExcludeStatus struct {
	Status string
}

func (s ExcludeStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.status <> ?", s.Status)
}

type Published struct{}

func (s Published) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.status = ?", "published")
}

type ByAuthor struct {
	AuthorID string
}

func (s ByAuthor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content.author_id = ?", s.AuthorID)
}

// ByDateRange bounds created_at or updated_at. Any other field falls back to
// updated_at; zero bounds are open.
type ByDateRange struct {
	Field string
	Start time.Time
	End   time.Time
}

func (s ByDateRange) Apply(db *gorm.DB) *gorm.DB {
	column := "content.updated_at"
	if s.Field == "created_at" {
		column = "content.created_at"
	}
	if !s.Start.IsZero() {
		db = db.Where(column+" >= ?", s.Start)
	}
	if !s.End.IsZero() {
		db = db.Where(column+" <= ?", s.End)
	}
	return db
}

type ActiveCollections struct{}

func (s ActiveCollections) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
