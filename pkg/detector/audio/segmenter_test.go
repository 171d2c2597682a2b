package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"exam-proctoring-be/pkg/sensor"
)

func pcmChunk(amplitude int16, samples int) sensor.AudioChunk {
	buf := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(amplitude))
	}
	return sensor.AudioChunk{PCM: buf}
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSegmenterCollectsOnlyLoudChunks(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	seg := NewSegmenter(2000, 4*time.Second).WithClock(clock.now)

	loud := pcmChunk(3000, 4)
	quiet := pcmChunk(100, 4)

	if _, flushed := seg.Feed(loud); flushed {
		t.Fatal("first loud chunk should not flush")
	}
	clock.advance(time.Second)
	if _, flushed := seg.Feed(quiet); flushed {
		t.Fatal("quiet chunk inside the gap should not flush")
	}
	clock.advance(time.Second)
	if _, flushed := seg.Feed(loud); flushed {
		t.Fatal("second loud chunk should not flush")
	}

	clock.advance(5 * time.Second)
	segment, flushed := seg.Feed(quiet)
	if !flushed {
		t.Fatal("quiet chunk after the gap should flush")
	}

	// Two loud chunks, no quiet bytes in between.
	want := append(append([]byte{}, loud.PCM...), loud.PCM...)
	if !bytes.Equal(segment.PCM, want) {
		t.Errorf("segment holds %d bytes, want %d loud-only bytes", len(segment.PCM), len(want))
	}
	if segment.ChunkCount != 2 {
		t.Errorf("chunk count = %d, want 2", segment.ChunkCount)
	}
}

func TestSegmenterQuietStreamProducesNothing(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	seg := NewSegmenter(2000, 4*time.Second).WithClock(clock.now)

	for i := 0; i < 20; i++ {
		if _, flushed := seg.Feed(pcmChunk(500, 4)); flushed {
			t.Fatal("quiet stream must never flush")
		}
		clock.advance(time.Second)
	}
	if _, flushed := seg.Flush(); flushed {
		t.Fatal("nothing accumulated, force flush must be empty")
	}
}

func TestSegmenterPollFlushesAfterGap(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	seg := NewSegmenter(2000, 4*time.Second).WithClock(clock.now)

	seg.Feed(pcmChunk(5000, 4))

	clock.advance(3 * time.Second)
	if _, flushed := seg.Poll(clock.now()); flushed {
		t.Fatal("poll before the gap elapsed should not flush")
	}

	clock.advance(2 * time.Second)
	segment, flushed := seg.Poll(clock.now())
	if !flushed {
		t.Fatal("poll after the gap should flush")
	}
	if segment.ChunkCount != 1 {
		t.Errorf("chunk count = %d, want 1", segment.ChunkCount)
	}

	// Segmenter resets to idle after a flush.
	if _, flushed := seg.Poll(clock.now()); flushed {
		t.Fatal("second poll must not flush again")
	}
}

func TestSegmenterThresholdBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	seg := NewSegmenter(2000, 4*time.Second).WithClock(clock.now)

	// Exactly at threshold counts as loud.
	seg.Feed(pcmChunk(2000, 4))
	if seg.LastLoudAt().IsZero() {
		t.Fatal("chunk at threshold should register as loud")
	}
}
