package events

import (
	"strings"
	"time"
)

// OccurredAtKey carries the event timestamp inside the wire payload.
const OccurredAtKey = "occurred_at"

// Content lifecycle events emitted by the content store.
const (
	TypeContentCreated     = "CONTENT_CREATED"
	TypeContentUpdated     = "CONTENT_UPDATED"
	TypeContentPublished   = "CONTENT_PUBLISHED"
	TypeContentUnpublished = "CONTENT_UNPUBLISHED"
	TypeContentDeleted     = "CONTENT_DELETED"
)

type Event interface {
	// EventType returns the unique code for this event (e.g. "CONTENT_UPDATED").
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TypeFromSubject strips the stream prefix from a subject.
func TypeFromSubject(subject, prefix string) string {
	return strings.TrimPrefix(subject, prefix)
}

// StringField reads a string payload value, empty when absent.
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}
