package sensor

import (
	"context"
	"sync"
	"time"
)

const defaultBuffer = 16

// VideoFeed buffers browser-pushed frames for one attempt. The buffer is
// bounded; when full, the oldest frame is dropped so the consumer always
// sees recent media.
type VideoFeed struct {
	mu       sync.Mutex
	ch       chan Frame
	seq      uint64
	acquired bool
	closed   bool
	done     chan struct{}
}

func NewVideoFeed() *VideoFeed {
	return &VideoFeed{
		ch:   make(chan Frame, defaultBuffer),
		done: make(chan struct{}),
	}
}

// Push enqueues a frame, dropping the oldest buffered frame when full.
func (f *VideoFeed) Push(jpeg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.seq++
	frame := Frame{Seq: f.seq, CapturedAt: time.Now(), JPEG: jpeg}
	for {
		select {
		case f.ch <- frame:
			return
		default:
			select {
			case <-f.ch:
			default:
			}
		}
	}
}

// Acquire hands out the exclusive consumer handle. A second Acquire
// before the first handle is closed fails with ErrDeviceUnavailable.
func (f *VideoFeed) Acquire() (VideoSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrDeviceUnavailable
	}
	if f.acquired {
		return nil, ErrDeviceUnavailable
	}
	f.acquired = true
	return &videoHandle{feed: f}, nil
}

func (f *VideoFeed) release() {
	f.mu.Lock()
	f.acquired = false
	f.mu.Unlock()
}

// Drop permanently closes the feed; pending Next calls return
// ErrStreamEnded once the buffer drains.
func (f *VideoFeed) Drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
}

type videoHandle struct {
	feed *VideoFeed
	once sync.Once
}

func (h *videoHandle) Next(ctx context.Context) (Frame, error) {
	select {
	case frame := <-h.feed.ch:
		return frame, nil
	default:
	}
	select {
	case frame := <-h.feed.ch:
		return frame, nil
	case <-h.feed.done:
		// Drain anything pushed before the drop.
		select {
		case frame := <-h.feed.ch:
			return frame, nil
		default:
			return Frame{}, ErrStreamEnded
		}
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

func (h *videoHandle) Close() error {
	h.once.Do(h.feed.release)
	return nil
}

// AudioFeed is the audio counterpart of VideoFeed.
type AudioFeed struct {
	mu       sync.Mutex
	ch       chan AudioChunk
	seq      uint64
	acquired bool
	closed   bool
	done     chan struct{}
}

func NewAudioFeed() *AudioFeed {
	return &AudioFeed{
		ch:   make(chan AudioChunk, defaultBuffer),
		done: make(chan struct{}),
	}
}

func (f *AudioFeed) Push(pcm []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.seq++
	chunk := AudioChunk{Seq: f.seq, CapturedAt: time.Now(), PCM: pcm}
	for {
		select {
		case f.ch <- chunk:
			return
		default:
			select {
			case <-f.ch:
			default:
			}
		}
	}
}

func (f *AudioFeed) Acquire() (AudioSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrDeviceUnavailable
	}
	if f.acquired {
		return nil, ErrDeviceUnavailable
	}
	f.acquired = true
	return &audioHandle{feed: f}, nil
}

func (f *AudioFeed) release() {
	f.mu.Lock()
	f.acquired = false
	f.mu.Unlock()
}

func (f *AudioFeed) Drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
}

type audioHandle struct {
	feed *AudioFeed
	once sync.Once
}

func (h *audioHandle) Next(ctx context.Context) (AudioChunk, error) {
	select {
	case chunk := <-h.feed.ch:
		return chunk, nil
	default:
	}
	select {
	case chunk := <-h.feed.ch:
		return chunk, nil
	case <-h.feed.done:
		select {
		case chunk := <-h.feed.ch:
			return chunk, nil
		default:
			return AudioChunk{}, ErrStreamEnded
		}
	case <-ctx.Done():
		return AudioChunk{}, ctx.Err()
	}
}

func (h *audioHandle) Close() error {
	h.once.Do(h.feed.release)
	return nil
}

// Hub tracks the feeds of every live attempt. Ingest handlers push into
// it, session loops acquire from it.
type Hub struct {
	mu    sync.Mutex
	video map[string]*VideoFeed
	audio map[string]*AudioFeed
}

func NewHub() *Hub {
	return &Hub{
		video: make(map[string]*VideoFeed),
		audio: make(map[string]*AudioFeed),
	}
}

// OpenVideo returns the attempt's video feed, creating it on first use.
func (h *Hub) OpenVideo(attemptId string) *VideoFeed {
	h.mu.Lock()
	defer h.mu.Unlock()
	feed, ok := h.video[attemptId]
	if !ok {
		feed = NewVideoFeed()
		h.video[attemptId] = feed
	}
	return feed
}

func (h *Hub) OpenAudio(attemptId string) *AudioFeed {
	h.mu.Lock()
	defer h.mu.Unlock()
	feed, ok := h.audio[attemptId]
	if !ok {
		feed = NewAudioFeed()
		h.audio[attemptId] = feed
	}
	return feed
}

func (h *Hub) PushFrame(attemptId string, jpeg []byte) {
	h.OpenVideo(attemptId).Push(jpeg)
}

func (h *Hub) PushChunk(attemptId string, pcm []byte) {
	h.OpenAudio(attemptId).Push(pcm)
}

// Drop closes and forgets both feeds of an attempt.
func (h *Hub) Drop(attemptId string) {
	h.mu.Lock()
	video := h.video[attemptId]
	audio := h.audio[attemptId]
	delete(h.video, attemptId)
	delete(h.audio, attemptId)
	h.mu.Unlock()

	if video != nil {
		video.Drop()
	}
	if audio != nil {
		audio.Drop()
	}
}
