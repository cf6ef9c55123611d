package entity

import (
	"time"

	"github.com/google/uuid"
)

type SearchMode string

const (
	SearchModeAI      SearchMode = "ai"
	SearchModeKeyword SearchMode = "keyword"
)

type DateRange struct {
	Start time.Time
	End   time.Time
	// Field is created_at or updated_at
	Field string
}

type SearchFilters struct {
	Collections []string
	Status      []string
	DateRange   *DateRange
	Author      string
}

type SearchQuery struct {
	Query   string
	Mode    SearchMode
	Filters SearchFilters
	Limit   int
	Offset  int
}

type SearchResult struct {
	Id             string
	Title          string
	Slug           string
	CollectionId   string
	CollectionName string
	Snippet        string
	RelevanceScore *float64
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorName     string
}

type SearchResponse struct {
	Results     []SearchResult
	Total       int
	QueryTimeMs int64
	Mode        SearchMode
}

// SearchHistory rows are append-only.
type SearchHistory struct {
	Id           uuid.UUID
	Query        string
	Mode         SearchMode
	ResultsCount int
	QueryTimeMs  int64
	CreatedAt    time.Time
}

type PopularQuery struct {
	Query string
	Count int64
}

type SearchAnalytics struct {
	TotalQueries       int64
	AIQueries          int64
	KeywordQueries     int64
	PopularQueries     []PopularQuery
	AverageQueryTimeMs float64
}

type CollectionInfo struct {
	Id          string
	Name        string
	DisplayName string
	Description string
	ItemCount   int64
	IsIndexed   bool
	IsDismissed bool
	IsNew       bool
}

type NewCollectionNotification struct {
	Collection CollectionInfo
	Message    string
}
