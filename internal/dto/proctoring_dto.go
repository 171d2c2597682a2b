package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	AttemptId uuid.UUID `json:"attempt_id" validate:"required"`
}

type StartSessionResponse struct {
	AttemptId uuid.UUID `json:"attempt_id"`
	Status    string    `json:"status"`
}

type StopSessionResponse struct {
	AttemptId uuid.UUID `json:"attempt_id"`
	Status    string    `json:"status"`
}

// WarningResponse is polled by the exam page; empty warning means clear.
type WarningResponse struct {
	Warning        string `json:"warning"`
	TabSwitchCount int    `json:"tab_switch_count"`
}

type TabSwitchResponse struct {
	Status       string `json:"status"` // "updated" | "terminated"
	Count        int    `json:"count"`
	CheatingFlag bool   `json:"cheating_flag"`
	Message      string `json:"message,omitempty"`
}

// CaptureEvidenceMessage rides the async evidence queue from the
// aggregator to the persistence worker.
type CaptureEvidenceMessage struct {
	EventId uuid.UUID `json:"event_id"`
	Kind    string    `json:"kind"` // "image" | "audio"
	Payload []byte    `json:"payload"`
}

type ProctorEventResponse struct {
	Id              uuid.UUID `json:"id"`
	StudentId       uuid.UUID `json:"student_id"`
	AttemptId       uuid.UUID `json:"attempt_id"`
	EventType       string    `json:"event_type"`
	CheatingFlag    bool      `json:"cheating_flag"`
	TabSwitchCount  int       `json:"tab_switch_count"`
	DetectedObjects []string  `json:"detected_objects"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProctorNotice is the payload broadcast to connected proctor consoles.
type ProctorNotice struct {
	EventId         uuid.UUID `json:"event_id"`
	StudentId       uuid.UUID `json:"student_id"`
	AttemptId       uuid.UUID `json:"attempt_id"`
	EventType       string    `json:"event_type"`
	DetectedObjects []string  `json:"detected_objects"`
	TabSwitchCount  int       `json:"tab_switch_count"`
	OccurredAt      time.Time `json:"occurred_at"`
}
