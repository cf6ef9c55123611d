package entity

import (
	"time"

	"github.com/google/uuid"
)

type IndexState string

const (
	IndexStatePending   IndexState = "pending"
	IndexStateIndexing  IndexState = "indexing"
	IndexStateCompleted IndexState = "completed"
	IndexStateError     IndexState = "error"
)

// IndexStatus is kept per collection. IndexedItems counts chunks, not records.
type IndexStatus struct {
	Id             uuid.UUID
	CollectionId   string
	CollectionName string
	TotalItems     int
	IndexedItems   int
	LastSyncAt     *time.Time
	Status         IndexState
	ErrorMessage   string
}
