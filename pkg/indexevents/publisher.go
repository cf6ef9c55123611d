package indexevents

import (
	"context"
	"time"

	"ai-search-be/internal/entity"
	"ai-search-be/internal/pkg/logger"
	pkgEvents "ai-search-be/pkg/events"
	pktNats "ai-search-be/pkg/nats"
)

const (
	TypeIndexCompleted = "AI_SEARCH_INDEX_COMPLETED"
	TypeIndexFailed    = "AI_SEARCH_INDEX_FAILED"
)

// Publisher announces index run outcomes.
type Publisher interface {
	PublishIndexCompleted(ctx context.Context, status entity.IndexStatus)
	PublishIndexFailed(ctx context.Context, status entity.IndexStatus)
}

// EventSink is the part of the NATS publisher used here.
type EventSink interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

type NatsPublisher struct {
	sink   EventSink
	logger logger.ILogger
}

// NewNatsPublisher accepts a nil publisher, in which case events are dropped.
func NewNatsPublisher(publisher *pktNats.Publisher, log logger.ILogger) *NatsPublisher {
	p := &NatsPublisher{logger: log}
	if publisher != nil {
		p.sink = publisher
	}
	return p
}

func NewPublisherWithSink(sink EventSink, log logger.ILogger) *NatsPublisher {
	return &NatsPublisher{sink: sink, logger: log}
}

func (p *NatsPublisher) PublishIndexCompleted(ctx context.Context, status entity.IndexStatus) {
	p.publish(ctx, TypeIndexCompleted, status)
}

func (p *NatsPublisher) PublishIndexFailed(ctx context.Context, status entity.IndexStatus) {
	p.publish(ctx, TypeIndexFailed, status)
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, status entity.IndexStatus) {
	if p.sink == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       statusPayload(status),
		OccurredAt: time.Now(),
	}

	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error(logger.ModuleEvents, "Failed to publish "+eventType+" event", map[string]interface{}{
			"collection_id": status.CollectionId,
			"error":         err.Error(),
		})
	}
}

func statusPayload(status entity.IndexStatus) map[string]interface{} {
	data := map[string]interface{}{
		"collection_id":   status.CollectionId,
		"collection_name": status.CollectionName,
		"total_items":     status.TotalItems,
		"indexed_items":   status.IndexedItems,
		"status":          string(status.Status),
	}
	if status.ErrorMessage != "" {
		data["error_message"] = status.ErrorMessage
	}
	if status.LastSyncAt != nil {
		data["last_sync_at"] = status.LastSyncAt.Format(time.RFC3339)
	}
	return data
}
