package service

import (
	"context"
	"time"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/pkg/events"
	pkgNats "exam-proctoring-be/pkg/nats"

	"github.com/google/uuid"
)

// ConsoleDelivery is how confirmed events reach the proctor consoles,
// implemented by the websocket hub.
type ConsoleDelivery interface {
	Broadcast(notice dto.ProctorNotice)
}

// ProctorFeedService bridges the event bus to the live consoles: every
// confirmed cheating event published by the aggregator is pushed to
// whoever is watching.
type ProctorFeedService struct {
	subscriber *pkgNats.Subscriber
	delivery   ConsoleDelivery
	logger     logger.ILogger
}

func NewProctorFeedService(sub *pkgNats.Subscriber, delivery ConsoleDelivery, log logger.ILogger) *ProctorFeedService {
	return &ProctorFeedService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ProctorFeedService) Start() {
	err := s.subscriber.Subscribe("events.>", "proctor-feed-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ProctorFeedService", "Failed to start feed subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("ProctorFeedService", "Proctor feed started, listening to events.>", nil)
}

func (s *ProctorFeedService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	notice := dto.ProctorNotice{
		OccurredAt: time.Now(),
	}
	if v, ok := payload["event_id"].(string); ok {
		notice.EventId, _ = uuid.Parse(v)
	}
	if v, ok := payload["student_id"].(string); ok {
		notice.StudentId, _ = uuid.Parse(v)
	}
	if v, ok := payload["attempt_id"].(string); ok {
		notice.AttemptId, _ = uuid.Parse(v)
	}
	if v, ok := payload["event_type"].(string); ok {
		notice.EventType = v
	}
	if v, ok := payload["tab_switch_count"].(float64); ok {
		notice.TabSwitchCount = int(v)
	}
	if raw, ok := payload["detected_objects"].([]interface{}); ok {
		for _, l := range raw {
			if label, ok := l.(string); ok {
				notice.DetectedObjects = append(notice.DetectedObjects, label)
			}
		}
	}

	s.delivery.Broadcast(notice)
	return nil
}
