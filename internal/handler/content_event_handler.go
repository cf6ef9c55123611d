package handler

import (
	"context"
	"fmt"
	"strings"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/internal/service"
	"ai-search-be/pkg/events"
	pktNats "ai-search-be/pkg/nats"
)

// EventSubscriber is the part of the NATS subscriber used here.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

// ContentEventHandler turns content lifecycle events into index jobs.
type ContentEventHandler struct {
	publisher service.IPublisherService
	logger    logger.ILogger
}

func NewContentEventHandler(publisher service.IPublisherService, log logger.ILogger) *ContentEventHandler {
	return &ContentEventHandler{
		publisher: publisher,
		logger:    log,
	}
}

var contentEventTypes = []string{
	events.TypeContentCreated,
	events.TypeContentUpdated,
	events.TypeContentPublished,
	events.TypeContentUnpublished,
	events.TypeContentDeleted,
}

// Start registers one durable consumer per content event type.
func (h *ContentEventHandler) Start(sub EventSubscriber) error {
	for _, t := range contentEventTypes {
		durable := "ai-search-" + strings.ToLower(strings.ReplaceAll(t, "_", "-"))
		if err := sub.Subscribe(pktNats.SubjectPrefix+t, durable, h.Handle); err != nil {
			return fmt.Errorf("subscribe %s: %w", t, err)
		}
	}
	h.logger.Info(logger.ModuleEvents, "Listening for content events", map[string]interface{}{"types": contentEventTypes})
	return nil
}

func (h *ContentEventHandler) Handle(ctx context.Context, event events.Event) error {
	contentId := events.StringField(event, "content_id")
	if contentId == "" {
		contentId = events.StringField(event, "id")
	}
	if contentId == "" {
		h.logger.Warn(logger.ModuleEvents, "Content event without content id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	job := dto.IndexJobMessage{Kind: dto.IndexJobContent, ContentId: contentId}
	if event.EventType() == events.TypeContentDeleted {
		job.Kind = dto.IndexJobRemove
	}

	return h.publisher.PublishIndexJob(ctx, job)
}
