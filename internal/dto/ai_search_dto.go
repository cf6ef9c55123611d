package dto

import "time"

type AISearchSettingsResponse struct {
	Enabled              bool     `json:"enabled"`
	AIModeEnabled        bool     `json:"ai_mode_enabled"`
	SelectedCollections  []string `json:"selected_collections"`
	DismissedCollections []string `json:"dismissed_collections"`
	AutocompleteEnabled  bool     `json:"autocomplete_enabled"`
	CacheDuration        int      `json:"cache_duration"`
	ResultsLimit         int      `json:"results_limit"`
	IndexMedia           bool     `json:"index_media"`
}

// UpdateAISearchSettingsRequest is a partial update, nil fields keep the stored value.
type UpdateAISearchSettingsRequest struct {
	Enabled              *bool    `json:"enabled"`
	AIModeEnabled        *bool    `json:"ai_mode_enabled"`
	SelectedCollections  []string `json:"selected_collections"`
	DismissedCollections []string `json:"dismissed_collections"`
	AutocompleteEnabled  *bool    `json:"autocomplete_enabled"`
	CacheDuration        *int     `json:"cache_duration" validate:"omitempty,gte=0,lte=168"`
	ResultsLimit         *int     `json:"results_limit" validate:"omitempty,gte=1,lte=100"`
	IndexMedia           *bool    `json:"index_media"`
}

type IndexStatusResponse struct {
	CollectionId   string     `json:"collection_id"`
	CollectionName string     `json:"collection_name"`
	TotalItems     int        `json:"total_items"`
	IndexedItems   int        `json:"indexed_items"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}

type CollectionInfoResponse struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	ItemCount   int64  `json:"item_count"`
	IsIndexed   bool   `json:"is_indexed"`
	IsDismissed bool   `json:"is_dismissed"`
	IsNew       bool   `json:"is_new"`
}

type NewCollectionNotificationResponse struct {
	Collection CollectionInfoResponse `json:"collection"`
	Message    string                 `json:"message"`
}

type ReindexRequest struct {
	CollectionId string `json:"collection_id" validate:"required"`
}

type ReindexResponse struct {
	CollectionId string `json:"collection_id"`
	Queued       bool   `json:"queued"`
}

const (
	IndexJobCollection = "collection"
	IndexJobSync       = "sync"
	IndexJobContent    = "content"
	IndexJobRemove     = "remove"
)

// IndexJobMessage is the payload on the index topic.
type IndexJobMessage struct {
	Kind          string   `json:"kind"`
	CollectionIds []string `json:"collection_ids,omitempty"`
	ContentId     string   `json:"content_id,omitempty"`
}
