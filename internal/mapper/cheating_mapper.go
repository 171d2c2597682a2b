package mapper

import (
	"encoding/json"
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/model"

	"gorm.io/datatypes"
)

type CheatingMapper struct{}

func NewCheatingMapper() *CheatingMapper {
	return &CheatingMapper{}
}

func (m *CheatingMapper) ToEntity(c *model.CheatingEvent) *entity.CheatingEvent {
	if c == nil {
		return nil
	}

	var labels []string
	if len(c.DetectedObjects) > 0 {
		// Corrupt JSON leaves an empty label set rather than failing the read.
		_ = json.Unmarshal(c.DetectedObjects, &labels)
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.CheatingEvent{
		Id:              c.Id,
		StudentId:       c.StudentId,
		AttemptId:       c.AttemptId,
		EventType:       c.EventType,
		CheatingFlag:    c.CheatingFlag,
		TabSwitchCount:  c.TabSwitchCount,
		DetectedObjects: labels,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *CheatingMapper) ToModel(c *entity.CheatingEvent) *model.CheatingEvent {
	if c == nil {
		return nil
	}

	labels := c.DetectedObjects
	if labels == nil {
		labels = []string{}
	}
	labelsJSON, _ := json.Marshal(labels)

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.CheatingEvent{
		Id:              c.Id,
		StudentId:       c.StudentId,
		AttemptId:       c.AttemptId,
		EventType:       c.EventType,
		CheatingFlag:    c.CheatingFlag,
		TabSwitchCount:  c.TabSwitchCount,
		DetectedObjects: datatypes.JSON(labelsJSON),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *CheatingMapper) ToEntities(models []*model.CheatingEvent) []*entity.CheatingEvent {
	entities := make([]*entity.CheatingEvent, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CheatingMapper) ImageToEntity(c *model.CheatingImage) *entity.CheatingImage {
	if c == nil {
		return nil
	}
	return &entity.CheatingImage{
		Id:        c.Id,
		EventId:   c.EventId,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
	}
}

func (m *CheatingMapper) AudioToEntity(c *model.CheatingAudio) *entity.CheatingAudio {
	if c == nil {
		return nil
	}
	return &entity.CheatingAudio{
		Id:        c.Id,
		EventId:   c.EventId,
		Audio:     c.Audio,
		CreatedAt: c.CreatedAt,
	}
}
