package mapper

import (
	"testing"
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCheatingMapperRoundTrip(t *testing.T) {
	m := NewCheatingMapper()
	updated := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	src := &entity.CheatingEvent{
		Id:              uuid.New(),
		StudentId:       uuid.New(),
		AttemptId:       uuid.New(),
		EventType:       entity.EventObjectDetected,
		CheatingFlag:    true,
		TabSwitchCount:  3,
		DetectedObjects: []string{"cell phone", "book"},
		CreatedAt:       updated.Add(-time.Minute),
		UpdatedAt:       &updated,
	}

	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got)
	assert.Equal(t, src.Id, got.Id)
	assert.Equal(t, src.EventType, got.EventType)
	assert.Equal(t, src.DetectedObjects, got.DetectedObjects)
	assert.True(t, got.CheatingFlag)
	assert.Equal(t, 3, got.TabSwitchCount)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(updated))
}

func TestCheatingMapperNilLabels(t *testing.T) {
	m := NewCheatingMapper()

	mod := m.ToModel(&entity.CheatingEvent{Id: uuid.New(), EventType: entity.EventTabSwitch})
	assert.JSONEq(t, `[]`, string(mod.DetectedObjects))

	ent := m.ToEntity(mod)
	require.NotNil(t, ent)
	assert.Empty(t, ent.DetectedObjects)
	assert.Nil(t, ent.UpdatedAt)
}

func TestCheatingMapperCorruptJSON(t *testing.T) {
	m := NewCheatingMapper()

	ent := m.ToEntity(&model.CheatingEvent{
		Id:              uuid.New(),
		EventType:       entity.EventMultiplePersons,
		DetectedObjects: datatypes.JSON([]byte(`{not json`)),
	})
	require.NotNil(t, ent)
	assert.Empty(t, ent.DetectedObjects)
}

func TestCheatingMapperNil(t *testing.T) {
	m := NewCheatingMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
	assert.Nil(t, m.ImageToEntity(nil))
	assert.Nil(t, m.AudioToEntity(nil))
}
