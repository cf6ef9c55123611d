package entity

import (
	"time"
)

const (
	ContentStatusPublished = "published"
	ContentStatusDeleted   = "deleted"
)

// Content is a record of the primary content store. Data holds the
// serialized structured payload.
type Content struct {
	Id             string
	CollectionId   string
	CollectionSlug string // collections.name
	CollectionName string // collections.display_name
	Title          string
	Slug           string
	Data           string
	Status         string
	AuthorId       string
	AuthorName     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Collection struct {
	Id          string
	Name        string
	DisplayName string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
