package service

import (
	"context"
	"encoding/json"
	"errors"

	"exam-proctoring-be/internal/dto"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/pkg/evidence"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the evidence queue and persists media through
// the recorder. Storage failures Nack for retry; poison messages and
// cap-rejected media are Acked and dropped.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	recorder  *evidence.Recorder
	logger    logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	recorder *evidence.Recorder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		recorder:  recorder,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.CaptureEvidenceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Dropping unreadable evidence message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	var stored bool
	var err error
	switch payload.Kind {
	case "image":
		stored, err = cs.recorder.RecordImage(ctx, payload.EventId, payload.Payload)
	case "audio":
		stored, err = cs.recorder.RecordAudio(ctx, payload.EventId, payload.Payload)
	default:
		cs.logger.Warn("ConsumerService", "Unknown evidence kind", map[string]interface{}{"kind": payload.Kind})
		msg.Ack()
		return
	}

	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to store evidence", map[string]interface{}{
			"event_id": payload.EventId.String(),
			"kind":     payload.Kind,
			"error":    err.Error(),
		})
		if errors.Is(err, evidence.ErrBadMedia) {
			msg.Ack()
			return
		}
		msg.Nack()
		return
	}

	if !stored {
		cs.logger.Debug("ConsumerService", "Evidence cap reached, media dropped", map[string]interface{}{
			"event_id": payload.EventId.String(),
			"kind":     payload.Kind,
		})
	}
	msg.Ack()
}
