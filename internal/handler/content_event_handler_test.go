package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-search-be/internal/dto"
	"ai-search-be/internal/pkg/logger"
	"ai-search-be/pkg/events"
	pktNats "ai-search-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	jobs []dto.IndexJobMessage
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload any) error {
	return p.err
}

func (p *recordingPublisher) PublishIndexJob(ctx context.Context, job dto.IndexJobMessage) error {
	p.jobs = append(p.jobs, job)
	return p.err
}

type recordingSubscriber struct {
	subjects []string
	durables []string
}

func (s *recordingSubscriber) Subscribe(subject string, durableName string, handler pktNats.EventHandler) error {
	s.subjects = append(s.subjects, subject)
	s.durables = append(s.durables, durableName)
	return nil
}

func event(eventType string, data map[string]interface{}) events.Event {
	return events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func TestContentEventHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		evt      events.Event
		expected []dto.IndexJobMessage
	}{
		{
			name:     "update reindexes content",
			evt:      event(events.TypeContentUpdated, map[string]interface{}{"content_id": "c-1"}),
			expected: []dto.IndexJobMessage{{Kind: dto.IndexJobContent, ContentId: "c-1"}},
		},
		{
			name:     "id key is accepted",
			evt:      event(events.TypeContentPublished, map[string]interface{}{"id": "c-2"}),
			expected: []dto.IndexJobMessage{{Kind: dto.IndexJobContent, ContentId: "c-2"}},
		},
		{
			name:     "delete removes content",
			evt:      event(events.TypeContentDeleted, map[string]interface{}{"content_id": "c-3"}),
			expected: []dto.IndexJobMessage{{Kind: dto.IndexJobRemove, ContentId: "c-3"}},
		},
		{
			name: "missing id is dropped",
			evt:  event(events.TypeContentUpdated, map[string]interface{}{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			h := NewContentEventHandler(pub, logger.NewNopLogger())

			require.NoError(t, h.Handle(context.Background(), tt.evt))
			assert.Equal(t, tt.expected, pub.jobs)
		})
	}
}

func TestContentEventHandler_PublishErrorIsReturned(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("queue closed")}
	h := NewContentEventHandler(pub, logger.NewNopLogger())

	err := h.Handle(context.Background(), event(events.TypeContentUpdated, map[string]interface{}{"content_id": "c-1"}))
	assert.Error(t, err)
}

func TestContentEventHandler_StartSubscribesEveryType(t *testing.T) {
	sub := &recordingSubscriber{}
	h := NewContentEventHandler(&recordingPublisher{}, logger.NewNopLogger())

	require.NoError(t, h.Start(sub))
	assert.Contains(t, sub.subjects, "events.CONTENT_DELETED")
	assert.Contains(t, sub.durables, "ai-search-content-updated")
	assert.Len(t, sub.subjects, 5)
}
