package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event types a cheating event can carry. One open event per
// (student, attempt, type) accumulates findings; tab_switch is the only
// type with a meaningful counter.
const (
	EventObjectDetected  = "object_detected"
	EventMultiplePersons = "multiple_persons"
	EventGazeDetected    = "gaze_detected"
	EventAudioDetected   = "audio_detected"
	EventTabSwitch       = "tab_switch"
)

type CheatingEvent struct {
	Id        uuid.UUID
	StudentId uuid.UUID
	AttemptId uuid.UUID
	EventType string

	// CheatingFlag marks the event as confirmed severity.
	CheatingFlag bool

	// TabSwitchCount is only used by the tab_switch event type.
	TabSwitchCount int

	// DetectedObjects is the accumulating set of labels of interest.
	DetectedObjects []string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

type CheatingImage struct {
	Id        uuid.UUID
	EventId   uuid.UUID
	Image     []byte
	CreatedAt time.Time
}

type CheatingAudio struct {
	Id        uuid.UUID
	EventId   uuid.UUID
	Audio     []byte
	CreatedAt time.Time
}
