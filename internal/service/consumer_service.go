package service

import (
	"context"
	"encoding/json"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	indexService IIndexService
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	indexService IIndexService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		indexService: indexService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. Index runs record their own outcome in the
// status table, so a redelivery would only repeat the same work.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var job dto.IndexJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error(logger.ModuleConsumer, "Failed to unmarshal index job", map[string]interface{}{"message_id": msg.UUID, "error": err.Error()})
		return
	}

	cs.logger.Info(logger.ModuleConsumer, "Processing index job", map[string]interface{}{
		"message_id":     msg.UUID,
		"kind":           job.Kind,
		"collection_ids": job.CollectionIds,
		"content_id":     job.ContentId,
	})

	switch job.Kind {
	case dto.IndexJobCollection, dto.IndexJobSync:
		cs.indexService.SyncAll(ctx, job.CollectionIds)
	case dto.IndexJobContent:
		if err := cs.indexService.UpdateContentIndex(ctx, job.ContentId); err != nil {
			cs.logger.Error(logger.ModuleConsumer, "Failed to update content index", map[string]interface{}{"content_id": job.ContentId, "error": err.Error()})
		}
	case dto.IndexJobRemove:
		if err := cs.indexService.RemoveContent(ctx, job.ContentId); err != nil {
			cs.logger.Error(logger.ModuleConsumer, "Failed to remove content from index", map[string]interface{}{"content_id": job.ContentId, "error": err.Error()})
		}
	default:
		cs.logger.Warn(logger.ModuleConsumer, "Unknown index job kind", map[string]interface{}{"kind": job.Kind})
	}
}
