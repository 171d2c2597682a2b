package aggregator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/pkg/detector"
	"exam-proctoring-be/pkg/events"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu         sync.Mutex
	events     map[string]*entity.CheatingEvent
	confirmed  map[uuid.UUID]int
	merged     map[uuid.UUID][][]string
	creates    int
	incrErr    error
	tabCounter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:    make(map[string]*entity.CheatingEvent),
		confirmed: make(map[uuid.UUID]int),
		merged:    make(map[uuid.UUID][][]string),
	}
}

func (s *fakeStore) GetOrCreateOpen(ctx context.Context, studentId, attemptId uuid.UUID, eventType string) (*entity.CheatingEvent, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := studentId.String() + attemptId.String() + eventType
	if ev, ok := s.events[key]; ok {
		return ev, false, nil
	}
	ev := &entity.CheatingEvent{
		Id:        uuid.New(),
		StudentId: studentId,
		AttemptId: attemptId,
		EventType: eventType,
	}
	s.events[key] = ev
	s.creates++
	return ev, true, nil
}

func (s *fakeStore) IncrementTabSwitch(ctx context.Context, id uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrErr != nil {
		return 0, s.incrErr
	}
	s.tabCounter++
	return s.tabCounter, nil
}

func (s *fakeStore) SetConfirmed(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed[id]++
	return nil
}

func (s *fakeStore) MergeLabels(ctx context.Context, id uuid.UUID, labels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merged[id] = append(s.merged[id], labels)
	return nil
}

type fakeCapture struct {
	mu     sync.Mutex
	images int
	audios int
}

func (c *fakeCapture) CaptureImage(eventId uuid.UUID, frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images++
	return nil
}

func (c *fakeCapture) CaptureAudio(eventId uuid.UUID, pcm []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audios++
	return nil
}

type fakeTerminator struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (t *fakeTerminator) Terminate(ctx context.Context, attemptId uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, attemptId)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []events.Event
	pubErr    error
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pubErr != nil {
		return p.pubErr
	}
	p.published = append(p.published, event)
	return nil
}

type recordingLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *recordingLogger) Info(module, message string, details map[string]interface{})  {}
func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, message)
}
func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, message)
}
func (l *recordingLogger) Sync() error { return nil }

func newAggregator(store *fakeStore, capture *fakeCapture, term *fakeTerminator, pub *fakePublisher) *Aggregator {
	return New(store, capture, term, pub, NewMailbox(5*time.Second), 5, &recordingLogger{})
}

func TestOnFindingCreatesAndConfirmsOnce(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	agg := newAggregator(store, &fakeCapture{}, &fakeTerminator{}, pub)

	studentId, attemptId := uuid.New(), uuid.New()
	finding := detector.Finding{
		Kind:   detector.KindObject,
		Labels: []string{"cell phone"},
	}

	for i := 0; i < 4; i++ {
		if err := agg.OnFinding(context.Background(), studentId, attemptId, finding); err != nil {
			t.Fatalf("finding %d failed: %v", i, err)
		}
	}

	if store.creates != 1 {
		t.Errorf("created %d events, want 1", store.creates)
	}
	if len(pub.published) != 1 {
		t.Errorf("published %d events, want 1", len(pub.published))
	}
	for id, n := range store.confirmed {
		if n != 1 {
			t.Errorf("event %s confirmed %d times, want 1", id, n)
		}
	}
}

func TestOnFindingConcurrentSingleCreate(t *testing.T) {
	store := newFakeStore()
	agg := newAggregator(store, &fakeCapture{}, &fakeTerminator{}, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()
	finding := detector.Finding{Kind: detector.KindMultiplePersons}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = agg.OnFinding(context.Background(), studentId, attemptId, finding)
		}()
	}
	wg.Wait()

	if store.creates != 1 {
		t.Errorf("created %d events under concurrency, want 1", store.creates)
	}
}

func TestOnFindingRoutesEvidence(t *testing.T) {
	store := newFakeStore()
	capture := &fakeCapture{}
	agg := newAggregator(store, capture, &fakeTerminator{}, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()

	_ = agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{
		Kind:    detector.KindObject,
		Labels:  []string{"book"},
		Segment: []byte("jpeg-bytes"),
	})
	_ = agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{
		Kind:    detector.KindAudio,
		Segment: []byte("pcm-bytes"),
	})

	if capture.images != 1 {
		t.Errorf("captured %d images, want 1", capture.images)
	}
	if capture.audios != 1 {
		t.Errorf("captured %d audios, want 1", capture.audios)
	}
}

func TestOnFindingSetsWarning(t *testing.T) {
	store := newFakeStore()
	agg := newAggregator(store, &fakeCapture{}, &fakeTerminator{}, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()
	_ = agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{
		Kind:   detector.KindObject,
		Labels: []string{"cell phone", "book"},
	})

	got := agg.Warnings().Get(attemptId.String())
	want := "ALERT: cell phone, book detected!"
	if got != want {
		t.Errorf("warning = %q, want %q", got, want)
	}
}

func TestTabSwitchEscalation(t *testing.T) {
	store := newFakeStore()
	term := &fakeTerminator{}
	agg := newAggregator(store, &fakeCapture{}, term, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()

	// The first five switches flag but do not terminate.
	for i := 1; i <= 5; i++ {
		res, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId)
		if err != nil {
			t.Fatalf("switch %d failed: %v", i, err)
		}
		if res.Terminated {
			t.Fatalf("switch %d should not terminate", i)
		}
		if !res.CheatingFlag {
			t.Errorf("switch %d should raise the flag", i)
		}
		if res.Count != i {
			t.Errorf("switch %d count = %d", i, res.Count)
		}
	}

	// The sixth crosses the limit.
	res, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId)
	if err != nil {
		t.Fatalf("sixth switch failed: %v", err)
	}
	if !res.Terminated {
		t.Fatal("sixth switch should terminate the attempt")
	}
	if len(term.calls) != 1 || term.calls[0] != attemptId {
		t.Errorf("terminator calls = %v", term.calls)
	}

	// Everything after termination is rejected.
	if _, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId); !errors.Is(err, ErrAttemptTerminated) {
		t.Errorf("post-termination switch: want ErrAttemptTerminated, got %v", err)
	}
	err = agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{Kind: detector.KindGaze})
	if !errors.Is(err, ErrAttemptTerminated) {
		t.Errorf("post-termination finding: want ErrAttemptTerminated, got %v", err)
	}
}

func TestTabSwitchSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.incrErr = errors.New("db down")
	logg := &recordingLogger{}
	agg := New(store, &fakeCapture{}, &fakeTerminator{}, &fakePublisher{}, NewMailbox(5*time.Second), 5, logg)

	studentId, attemptId := uuid.New(), uuid.New()
	for i := 1; i <= 3; i++ {
		res, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId)
		if err != nil {
			t.Fatalf("switch %d failed: %v", i, err)
		}
		if res.Count != i {
			t.Errorf("switch %d count = %d, want in-memory count to hold", i, res.Count)
		}
	}
	if len(logg.errors) != 3 {
		t.Errorf("logged %d store failures, want one per dropped increment (3)", len(logg.errors))
	}
}

func TestOnFindingLogsPublishFailure(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{pubErr: errors.New("bus down")}
	logg := &recordingLogger{}
	agg := New(store, &fakeCapture{}, &fakeTerminator{}, pub, NewMailbox(5*time.Second), 5, logg)

	studentId, attemptId := uuid.New(), uuid.New()
	err := agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{
		Kind:   detector.KindObject,
		Labels: []string{"cell phone"},
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the finding: %v", err)
	}
	if len(logg.warns) != 1 {
		t.Errorf("logged %d publish failures, want 1", len(logg.warns))
	}
}

func TestMarkTerminatedRejectsLateActivity(t *testing.T) {
	store := newFakeStore()
	agg := newAggregator(store, &fakeCapture{}, &fakeTerminator{}, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()
	agg.MarkTerminated(studentId, attemptId)

	err := agg.OnFinding(context.Background(), studentId, attemptId, detector.Finding{Kind: detector.KindAudio})
	if !errors.Is(err, ErrAttemptTerminated) {
		t.Errorf("late finding: want ErrAttemptTerminated, got %v", err)
	}
	if _, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId); !errors.Is(err, ErrAttemptTerminated) {
		t.Errorf("late tab switch: want ErrAttemptTerminated, got %v", err)
	}
	if store.creates != 0 {
		t.Errorf("created %d events after termination, want 0", store.creates)
	}
}

func TestReleaseClearsState(t *testing.T) {
	store := newFakeStore()
	agg := newAggregator(store, &fakeCapture{}, &fakeTerminator{}, &fakePublisher{})

	studentId, attemptId := uuid.New(), uuid.New()
	_, _ = agg.HandleTabSwitch(context.Background(), studentId, attemptId)
	agg.MarkTerminated(studentId, attemptId)
	agg.Release(studentId, attemptId)

	// A fresh attempt under the same ids starts clean.
	res, err := agg.HandleTabSwitch(context.Background(), studentId, attemptId)
	if err != nil {
		t.Fatalf("switch after release failed: %v", err)
	}
	if res.Terminated {
		t.Error("released state must not leak termination")
	}
}
