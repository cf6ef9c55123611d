package mapper

import (
	"ai-search-be/internal/entity"
	"ai-search-be/internal/model"

	"gorm.io/datatypes"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

func (m *ContentMapper) ToEntity(c *model.Content) *entity.Content {
	if c == nil {
		return nil
	}

	return &entity.Content{
		Id:             c.Id,
		CollectionId:   c.CollectionId,
		CollectionSlug: c.CollectionSlug,
		CollectionName: c.CollectionName,
		Title:          c.Title,
		Slug:           c.Slug,
		Data:           string(c.Data),
		Status:         c.Status,
		AuthorId:       c.AuthorId,
		AuthorName:     c.AuthorName,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (m *ContentMapper) ToModel(c *entity.Content) *model.Content {
	if c == nil {
		return nil
	}

	data := c.Data
	if data == "" {
		data = "{}"
	}

	return &model.Content{
		Id:           c.Id,
		CollectionId: c.CollectionId,
		Title:        c.Title,
		Slug:         c.Slug,
		Data:         datatypes.JSON(data),
		Status:       c.Status,
		AuthorId:     c.AuthorId,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m *ContentMapper) ToEntities(contents []*model.Content) []*entity.Content {
	entities := make([]*entity.Content, len(contents))
	for i, c := range contents {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

type CollectionMapper struct{}

func NewCollectionMapper() *CollectionMapper {
	return &CollectionMapper{}
}

func (m *CollectionMapper) ToEntity(c *model.Collection) *entity.Collection {
	if c == nil {
		return nil
	}
	return &entity.Collection{
		Id:          c.Id,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *CollectionMapper) ToModel(c *entity.Collection) *model.Collection {
	if c == nil {
		return nil
	}
	return &model.Collection{
		Id:          c.Id,
		Name:        c.Name,
		DisplayName: c.DisplayName,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *CollectionMapper) ToEntities(collections []*model.Collection) []*entity.Collection {
	entities := make([]*entity.Collection, len(collections))
	for i, c := range collections {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
