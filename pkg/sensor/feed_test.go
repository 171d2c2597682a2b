package sensor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestVideoFeedExclusiveAcquire(t *testing.T) {
	feed := NewVideoFeed()

	first, err := feed.Acquire()
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := feed.Acquire(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("second acquire: want ErrDeviceUnavailable, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	second, err := feed.Acquire()
	if err != nil {
		t.Fatalf("acquire after close failed: %v", err)
	}
	_ = second.Close()
}

func TestVideoFeedDropOldestWhenFull(t *testing.T) {
	feed := NewVideoFeed()
	for i := 0; i < defaultBuffer+5; i++ {
		feed.Push([]byte{byte(i)})
	}

	src, err := feed.Acquire()
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer src.Close()

	frame, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	// The 5 oldest frames were dropped; the first visible frame is seq 6.
	if frame.Seq != 6 {
		t.Errorf("first frame seq = %d, want 6", frame.Seq)
	}
}

func TestVideoFeedNextRespectsContext(t *testing.T) {
	feed := NewVideoFeed()
	src, err := feed.Acquire()
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want DeadlineExceeded, got %v", err)
	}
}

func TestVideoFeedDropDrainsThenEnds(t *testing.T) {
	feed := NewVideoFeed()
	feed.Push([]byte("a"))

	src, err := feed.Acquire()
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer src.Close()

	feed.Drop()

	if _, err := src.Next(context.Background()); err != nil {
		t.Fatalf("buffered frame should survive the drop: %v", err)
	}
	if _, err := src.Next(context.Background()); !errors.Is(err, ErrStreamEnded) {
		t.Fatalf("want ErrStreamEnded, got %v", err)
	}
}

func TestAudioChunkPeak(t *testing.T) {
	tests := []struct {
		name string
		pcm  []byte
		want int
	}{
		{name: "empty", pcm: nil, want: 0},
		{name: "silence", pcm: []byte{0, 0, 0, 0}, want: 0},
		{name: "positive sample", pcm: []byte{0x10, 0x27}, want: 10000}, // 10000 LE
		{name: "negative dominates", pcm: []byte{0x10, 0x27, 0x00, 0x80}, want: 32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AudioChunk{PCM: tt.pcm}.Peak()
			if got != tt.want {
				t.Errorf("Peak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHubDropClosesBothFeeds(t *testing.T) {
	hub := NewHub()
	hub.PushFrame("attempt-1", []byte("f"))
	hub.PushChunk("attempt-1", []byte{0, 0})

	video := hub.OpenVideo("attempt-1")
	audio := hub.OpenAudio("attempt-1")

	hub.Drop("attempt-1")

	if _, err := video.Acquire(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("video acquire after drop: want ErrDeviceUnavailable, got %v", err)
	}
	if _, err := audio.Acquire(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("audio acquire after drop: want ErrDeviceUnavailable, got %v", err)
	}

	// A later open creates a fresh feed under the same attempt id.
	fresh := hub.OpenVideo("attempt-1")
	if _, err := fresh.Acquire(); err != nil {
		t.Errorf("fresh feed acquire failed: %v", err)
	}
}
