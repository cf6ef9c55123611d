package service

import (
	"context"
	"encoding/json"

	"ai-search-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload any) error
	PublishIndexJob(ctx context.Context, job dto.IndexJobMessage) error
}

type publisherService struct {
	topicName string
	pubSub    message.Publisher
}

func NewPublisherService(topicName string, pubSub message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) Publish(ctx context.Context, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	return ps.pubSub.Publish(ps.topicName, msg)
}

func (ps *publisherService) PublishIndexJob(ctx context.Context, job dto.IndexJobMessage) error {
	return ps.Publish(ctx, job)
}
