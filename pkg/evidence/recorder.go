package evidence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"

	"github.com/google/uuid"
)

const jpegQuality = 85

// ErrBadMedia marks captures that can never be stored; retrying them is
// pointless.
var ErrBadMedia = errors.New("evidence: undecodable media")

// Store persists evidence rows and enforces the per-event cap.
type Store interface {
	AppendImage(ctx context.Context, eventId uuid.UUID, image []byte, limit int) (bool, error)
	AppendAudio(ctx context.Context, eventId uuid.UUID, audio []byte, limit int) (bool, error)
}

// Recorder converts raw captures into stored evidence. Once an event's
// cap is reached further captures are dropped silently; the event row
// itself keeps recording occurrences.
type Recorder struct {
	store      Store
	imageCap   int
	audioCap   int
	sampleRate int
}

func NewRecorder(store Store, imageCap, audioCap, sampleRate int) *Recorder {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Recorder{
		store:      store,
		imageCap:   imageCap,
		audioCap:   audioCap,
		sampleRate: sampleRate,
	}
}

// RecordImage re-encodes the frame to a bounded-quality JPEG before
// storing it, so one oversized browser upload cannot bloat the table.
// Returns whether the image was stored.
func (r *Recorder) RecordImage(ctx context.Context, eventId uuid.UUID, frame []byte) (bool, error) {
	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return false, fmt.Errorf("%w: decode frame: %v", ErrBadMedia, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return false, fmt.Errorf("%w: encode frame: %v", ErrBadMedia, err)
	}

	return r.store.AppendImage(ctx, eventId, buf.Bytes(), r.imageCap)
}

// RecordAudio wraps the PCM segment as a WAV file and stores it.
func (r *Recorder) RecordAudio(ctx context.Context, eventId uuid.UUID, pcm []byte) (bool, error) {
	if len(pcm) == 0 {
		return false, nil
	}
	wav := Wrap(pcm, DefaultChannels, DefaultBytesPerSample, r.sampleRate)
	return r.store.AppendAudio(ctx, eventId, wav, r.audioCap)
}
