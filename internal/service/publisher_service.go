package service

import (
	"context"
	"encoding/json"

	"exam-proctoring-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.pubSub.Publish(p.topicName, msg)
}

// EvidencePublisher adapts the publisher service to the aggregator's
// capture interface: media is queued and the request path never waits
// on storage.
type EvidencePublisher struct {
	publisher IPublisherService
}

func NewEvidencePublisher(publisher IPublisherService) *EvidencePublisher {
	return &EvidencePublisher{publisher: publisher}
}

func (p *EvidencePublisher) CaptureImage(eventId uuid.UUID, frame []byte) error {
	return p.enqueue(dto.CaptureEvidenceMessage{EventId: eventId, Kind: "image", Payload: frame})
}

func (p *EvidencePublisher) CaptureAudio(eventId uuid.UUID, pcm []byte) error {
	return p.enqueue(dto.CaptureEvidenceMessage{EventId: eventId, Kind: "audio", Payload: pcm})
}

func (p *EvidencePublisher) enqueue(msg dto.CaptureEvidenceMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.publisher.Publish(context.Background(), payload)
}
