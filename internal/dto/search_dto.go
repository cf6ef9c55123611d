package dto

import "time"

type DateRangeRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Field string    `json:"field" validate:"omitempty,oneof=created_at updated_at"`
}

type SearchFiltersRequest struct {
	Collections []string          `json:"collections"`
	Status      []string          `json:"status"`
	DateRange   *DateRangeRequest `json:"date_range" validate:"omitempty"`
	Author      string            `json:"author"`
}

type SearchRequest struct {
	Query   string               `json:"query" validate:"max=500"`
	Mode    string               `json:"mode" validate:"omitempty,oneof=ai keyword"`
	Filters SearchFiltersRequest `json:"filters"`
	Limit   int                  `json:"limit" validate:"gte=0,lte=100"`
	Offset  int                  `json:"offset" validate:"gte=0"`
}

type SearchResultResponse struct {
	Id             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	CollectionId   string    `json:"collection_id"`
	CollectionName string    `json:"collection_name"`
	Snippet        string    `json:"snippet"`
	RelevanceScore *float64  `json:"relevance_score,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	AuthorName     string    `json:"author_name,omitempty"`
}

type SearchResponse struct {
	Results     []SearchResultResponse `json:"results"`
	Total       int                    `json:"total"`
	QueryTimeMs int64                  `json:"query_time_ms"`
	Mode        string                 `json:"mode"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type PopularQueryResponse struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type SearchAnalyticsResponse struct {
	TotalQueries       int64                  `json:"total_queries"`
	AIQueries          int64                  `json:"ai_queries"`
	KeywordQueries     int64                  `json:"keyword_queries"`
	PopularQueries     []PopularQueryResponse `json:"popular_queries"`
	AverageQueryTimeMs float64                `json:"average_query_time"`
}
