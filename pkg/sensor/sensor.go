// Package sensor models the browser-pushed media feeds a proctoring
// session consumes. The exam page uploads webcam frames and microphone
// chunks over HTTP; each attempt owns one video feed and one audio feed,
// and at most one consumer may hold each at a time.
package sensor

import (
	"context"
	"encoding/binary"
	"errors"
	"time"
)

var (
	// ErrDeviceUnavailable is returned when a feed is already held by
	// another consumer or has not produced any media yet.
	ErrDeviceUnavailable = errors.New("sensor: device unavailable")

	// ErrStreamEnded is returned once a feed is dropped and drained.
	ErrStreamEnded = errors.New("sensor: stream ended")
)

// Frame is a single webcam capture, JPEG-encoded by the browser.
type Frame struct {
	Seq        uint64
	CapturedAt time.Time
	JPEG       []byte
}

// AudioChunk is a block of raw PCM from the microphone,
// little-endian 16-bit mono.
type AudioChunk struct {
	Seq        uint64
	CapturedAt time.Time
	PCM        []byte
}

// Peak returns the largest absolute sample amplitude in the chunk.
func (c AudioChunk) Peak() int {
	peak := 0
	for i := 0; i+1 < len(c.PCM); i += 2 {
		s := int(int16(binary.LittleEndian.Uint16(c.PCM[i:])))
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// VideoSource is an exclusive handle on an attempt's video feed.
// Close releases the feed for a later consumer.
type VideoSource interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// AudioSource is an exclusive handle on an attempt's audio feed.
type AudioSource interface {
	Next(ctx context.Context) (AudioChunk, error)
	Close() error
}
