package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHEATING_CONFIRMED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeCheatingConfirmed = "CHEATING_CONFIRMED"

// NewCheatingConfirmed builds the event published when the aggregator
// confirms a cheating event, consumed by the proctor console feed.
func NewCheatingConfirmed(eventID, studentID, attemptID uuid.UUID, eventType string, labels []string, tabSwitchCount int) Event {
	return BaseEvent{
		Type: TypeCheatingConfirmed,
		Data: map[string]interface{}{
			"event_id":         eventID.String(),
			"student_id":       studentID.String(),
			"attempt_id":       attemptID.String(),
			"event_type":       eventType,
			"detected_objects": labels,
			"tab_switch_count": tabSwitchCount,
		},
		OccurredAt: time.Now(),
	}
}
