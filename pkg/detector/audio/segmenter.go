// Package audio turns a stream of microphone chunks into suspicious
// audio segments. Only chunks whose peak amplitude clears the loudness
// threshold are collected; a sustained quiet gap closes the segment.
package audio

import (
	"time"

	"exam-proctoring-be/pkg/sensor"
)

type state int

const (
	stateIdle state = iota
	stateAccumulating
)

// Segment is one contiguous run of loud audio, raw PCM without headers.
type Segment struct {
	PCM        []byte
	StartedAt  time.Time
	EndedAt    time.Time
	ChunkCount int
}

// Segmenter is a per-attempt state machine. Not safe for concurrent
// use; each session's audio loop owns exactly one.
type Segmenter struct {
	threshold int
	quiet     time.Duration
	now       func() time.Time

	state      state
	buf        []byte
	chunkCount int
	startedAt  time.Time
	lastLoudAt time.Time
}

func NewSegmenter(threshold int, quiet time.Duration) *Segmenter {
	return &Segmenter{
		threshold: threshold,
		quiet:     quiet,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Segmenter) WithClock(now func() time.Time) *Segmenter {
	s.now = now
	return s
}

// Feed consumes one chunk. Quiet chunks are never appended; a quiet
// chunk arriving after the quiet gap has elapsed flushes the open
// segment. The returned bool reports whether a segment was flushed.
func (s *Segmenter) Feed(chunk sensor.AudioChunk) (Segment, bool) {
	now := s.now()
	loud := chunk.Peak() >= s.threshold

	if loud {
		if s.state == stateIdle {
			s.state = stateAccumulating
			s.startedAt = now
		}
		s.buf = append(s.buf, chunk.PCM...)
		s.chunkCount++
		s.lastLoudAt = now
		return Segment{}, false
	}

	if s.state == stateAccumulating && now.Sub(s.lastLoudAt) >= s.quiet {
		return s.flush(now), true
	}
	return Segment{}, false
}

// Poll flushes an open segment whose quiet gap has elapsed without any
// further chunks arriving. Called on the audio loop's timer.
func (s *Segmenter) Poll(now time.Time) (Segment, bool) {
	if s.state != stateAccumulating {
		return Segment{}, false
	}
	if now.Sub(s.lastLoudAt) < s.quiet {
		return Segment{}, false
	}
	return s.flush(now), true
}

// Flush force-closes any open segment, used when the session ends.
func (s *Segmenter) Flush() (Segment, bool) {
	if s.state != stateAccumulating {
		return Segment{}, false
	}
	return s.flush(s.now()), true
}

// LastLoudAt reports when the most recent loud chunk arrived; zero
// before any loud audio.
func (s *Segmenter) LastLoudAt() time.Time {
	return s.lastLoudAt
}

func (s *Segmenter) flush(now time.Time) Segment {
	seg := Segment{
		PCM:        s.buf,
		StartedAt:  s.startedAt,
		EndedAt:    now,
		ChunkCount: s.chunkCount,
	}
	s.state = stateIdle
	s.buf = nil
	s.chunkCount = 0
	s.startedAt = time.Time{}
	return seg
}
