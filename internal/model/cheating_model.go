package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CheatingEvent struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentId       uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uq_open_event"`
	AttemptId       uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uq_open_event"`
	EventType       string         `gorm:"type:varchar(50);not null;uniqueIndex:uq_open_event"`
	CheatingFlag    bool           `gorm:"not null;default:false;index"`
	TabSwitchCount  int            `gorm:"not null;default:0"`
	DetectedObjects datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime;index"`
}

func (CheatingEvent) TableName() string {
	return "cheating_events"
}

type CheatingImage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Image     []byte    `gorm:"type:bytea;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CheatingImage) TableName() string {
	return "cheating_images"
}

type CheatingAudio struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Audio     []byte    `gorm:"type:bytea;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CheatingAudio) TableName() string {
	return "cheating_audios"
}
