package contract

import (
	"context"

	"exam-proctoring-be/internal/entity"

	"github.com/google/uuid"
)

type EvidenceRepository interface {
	// AppendImage stores an image for the event unless the per-event cap
	// is already reached. Returns whether the image was stored.
	AppendImage(ctx context.Context, eventId uuid.UUID, image []byte, limit int) (bool, error)

	// AppendAudio stores an audio clip for the event under the same cap
	// rule as images.
	AppendAudio(ctx context.Context, eventId uuid.UUID, audio []byte, limit int) (bool, error)

	CountImages(ctx context.Context, eventId uuid.UUID) (int64, error)
	CountAudios(ctx context.Context, eventId uuid.UUID) (int64, error)

	FindImages(ctx context.Context, eventId uuid.UUID) ([]*entity.CheatingImage, error)
	FindAudios(ctx context.Context, eventId uuid.UUID) ([]*entity.CheatingAudio, error)
}
