package session

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"exam-proctoring-be/pkg/detector"
	"exam-proctoring-be/pkg/sensor"

	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeSink struct {
	mu       sync.Mutex
	findings []detector.Finding
}

func (s *fakeSink) OnFinding(ctx context.Context, studentId, attemptId uuid.UUID, f detector.Finding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findings = append(s.findings, f)
	return nil
}

func (s *fakeSink) byKind(kind detector.Kind) []detector.Finding {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []detector.Finding
	for _, f := range s.findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

type fakeObjects struct {
	labels []detector.Label
	err    error
}

func (f *fakeObjects) Classify(ctx context.Context, jpeg []byte) ([]detector.Label, error) {
	return f.labels, f.err
}

type fakeGaze struct {
	gaze detector.Gaze
	face bool
}

func (f *fakeGaze) Direction(ctx context.Context, jpeg []byte) (detector.Gaze, bool, error) {
	return f.gaze, f.face, nil
}

func testConfig() Config {
	return Config{
		FrameInterval:     10 * time.Millisecond,
		DetectEveryNth:    1,
		AudioPollInterval: 10 * time.Millisecond,
		AudioThreshold:    2000,
		AudioQuiet:        50 * time.Millisecond,
		DetectorTimeout:   time.Second,
	}
}

func loudPCM() []byte {
	buf := make([]byte, 8)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], 5000)
	}
	return buf
}

func newTestController(sink Sink, objects detector.FrameClassifier, gaze detector.GazeClassifier) (*Controller, *sensor.VideoFeed, *sensor.AudioFeed) {
	video := sensor.NewVideoFeed()
	audioFeed := sensor.NewAudioFeed()
	ctrl := NewController(uuid.New(), uuid.New(), video, audioFeed, objects, gaze, sink, testConfig(), nopLogger{})
	return ctrl, video, audioFeed
}

func TestControllerStartFailsWhenVideoHeld(t *testing.T) {
	ctrl, video, audioFeed := newTestController(&fakeSink{}, &fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true})

	held, err := video.Acquire()
	if err != nil {
		t.Fatalf("pre-acquire failed: %v", err)
	}
	defer held.Close()

	if err := ctrl.Start(context.Background()); !errors.Is(err, sensor.ErrDeviceUnavailable) {
		t.Fatalf("want ErrDeviceUnavailable, got %v", err)
	}

	// The audio feed must not be left half acquired.
	src, err := audioFeed.Acquire()
	if err != nil {
		t.Fatalf("audio feed leaked an acquisition: %v", err)
	}
	src.Close()
}

func TestControllerStopReleasesSources(t *testing.T) {
	ctrl, video, audioFeed := newTestController(&fakeSink{}, &fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := ctrl.Status(); got != StatusRunning {
		t.Fatalf("status = %s, want running", got)
	}

	if final := ctrl.Stop(StatusSubmitted); final != StatusSubmitted {
		t.Fatalf("final status = %s, want submitted", final)
	}

	// Both sources are released once Stop returns.
	v, err := video.Acquire()
	if err != nil {
		t.Fatalf("video still held after stop: %v", err)
	}
	v.Close()
	a, err := audioFeed.Acquire()
	if err != nil {
		t.Fatalf("audio still held after stop: %v", err)
	}
	a.Close()
}

func TestControllerStopIsIdempotent(t *testing.T) {
	ctrl, _, _ := newTestController(&fakeSink{}, &fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if final := ctrl.Stop(StatusTerminated); final != StatusTerminated {
		t.Fatalf("first stop = %s", final)
	}
	// A later disconnect must not overwrite the termination.
	if final := ctrl.Stop(StatusDisconnected); final != StatusTerminated {
		t.Fatalf("second stop = %s, want terminated kept", final)
	}
}

func TestControllerEmitsObjectFindings(t *testing.T) {
	sink := &fakeSink{}
	objects := &fakeObjects{labels: []detector.Label{
		{Name: "person", Confidence: 0.9},
		{Name: "cell phone", Confidence: 0.8},
	}}
	ctrl, video, _ := newTestController(sink, objects, &fakeGaze{gaze: detector.GazeCenter, face: true})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer ctrl.Stop(StatusSubmitted)

	for i := 0; i < 10; i++ {
		video.Push([]byte("frame"))
		time.Sleep(15 * time.Millisecond)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(sink.byKind(detector.KindObject)) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	found := sink.byKind(detector.KindObject)
	if len(found) == 0 {
		t.Fatal("no object findings emitted")
	}
	if len(found[0].Labels) != 1 || found[0].Labels[0] != "cell phone" {
		t.Errorf("labels = %v, want [cell phone] with person filtered", found[0].Labels)
	}
}

func TestControllerEmitsAudioWarningFinding(t *testing.T) {
	sink := &fakeSink{}
	ctrl, _, audioFeed := newTestController(sink, &fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer ctrl.Stop(StatusSubmitted)

	audioFeed.Push(loudPCM())

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(sink.byKind(detector.KindAudio)) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(sink.byKind(detector.KindAudio)) == 0 {
		t.Fatal("loud chunk produced no audio finding")
	}
}

func TestControllerFlushesSegmentOnStop(t *testing.T) {
	sink := &fakeSink{}
	ctrl, _, audioFeed := newTestController(sink, &fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true})

	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	audioFeed.Push(loudPCM())
	time.Sleep(30 * time.Millisecond)
	ctrl.Stop(StatusSubmitted)

	var withSegment int
	for _, f := range sink.byKind(detector.KindAudio) {
		if len(f.Segment) > 0 {
			withSegment++
		}
	}
	if withSegment == 0 {
		t.Fatal("open segment was not flushed on stop")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	var stopped []Status
	var stopMu sync.Mutex

	factory := func(studentId, attemptId uuid.UUID) *Controller {
		video := sensor.NewVideoFeed()
		audioFeed := sensor.NewAudioFeed()
		return NewController(studentId, attemptId, video, audioFeed,
			&fakeObjects{}, &fakeGaze{gaze: detector.GazeCenter, face: true}, &fakeSink{}, testConfig(), nopLogger{})
	}
	registry := NewRegistry(time.Minute, factory, func(studentId, attemptId uuid.UUID, status Status) {
		stopMu.Lock()
		stopped = append(stopped, status)
		stopMu.Unlock()
	})

	studentId, attemptId := uuid.New(), uuid.New()
	if err := registry.Start(context.Background(), studentId, attemptId); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := registry.Start(context.Background(), studentId, attemptId); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second start: want ErrSessionActive, got %v", err)
	}

	final, err := registry.Stop(attemptId, StatusSubmitted)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if final != StatusSubmitted {
		t.Errorf("final = %s, want submitted", final)
	}

	stopMu.Lock()
	defer stopMu.Unlock()
	if len(stopped) != 1 || stopped[0] != StatusSubmitted {
		t.Errorf("stop hook calls = %v, want one submitted", stopped)
	}

	if _, err := registry.Stop(attemptId, StatusSubmitted); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stop after stop: want ErrSessionNotFound, got %v", err)
	}
}
