package mapper

import (
	"ai-search-be/internal/entity"
	"ai-search-be/internal/model"
)

type IndexStatusMapper struct{}

func NewIndexStatusMapper() *IndexStatusMapper {
	return &IndexStatusMapper{}
}

func (m *IndexStatusMapper) ToEntity(s *model.IndexStatus) *entity.IndexStatus {
	if s == nil {
		return nil
	}

	var errMsg string
	if s.ErrorMessage != nil {
		errMsg = *s.ErrorMessage
	}

	return &entity.IndexStatus{
		Id:             s.Id,
		CollectionId:   s.CollectionId,
		CollectionName: s.CollectionName,
		TotalItems:     s.TotalItems,
		IndexedItems:   s.IndexedItems,
		LastSyncAt:     s.LastSyncAt,
		Status:         entity.IndexState(s.Status),
		ErrorMessage:   errMsg,
	}
}

func (m *IndexStatusMapper) ToModel(s *entity.IndexStatus) *model.IndexStatus {
	if s == nil {
		return nil
	}

	var errMsg *string
	if s.ErrorMessage != "" {
		msg := s.ErrorMessage
		errMsg = &msg
	}

	return &model.IndexStatus{
		Id:             s.Id,
		CollectionId:   s.CollectionId,
		CollectionName: s.CollectionName,
		TotalItems:     s.TotalItems,
		IndexedItems:   s.IndexedItems,
		LastSyncAt:     s.LastSyncAt,
		Status:         string(s.Status),
		ErrorMessage:   errMsg,
	}
}

func (m *IndexStatusMapper) ToEntities(statuses []*model.IndexStatus) []*entity.IndexStatus {
	entities := make([]*entity.IndexStatus, len(statuses))
	for i, s := range statuses {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
