// Package aggregator turns raw detector findings into durable cheating
// events. It deduplicates per (student, attempt, type), raises the
// confirmed flag, fans evidence capture out to the async recorder, and
// escalates tab switching to termination.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"exam-proctoring-be/internal/entity"
	"exam-proctoring-be/internal/pkg/logger"
	"exam-proctoring-be/pkg/detector"
	"exam-proctoring-be/pkg/events"

	"github.com/google/uuid"
)

// ErrAttemptTerminated rejects findings and tab switches arriving after
// the attempt was terminated.
var ErrAttemptTerminated = errors.New("aggregator: attempt terminated")

// EventStore is the narrow persistence surface the aggregator needs.
type EventStore interface {
	GetOrCreateOpen(ctx context.Context, studentId, attemptId uuid.UUID, eventType string) (*entity.CheatingEvent, bool, error)
	IncrementTabSwitch(ctx context.Context, id uuid.UUID) (int, error)
	SetConfirmed(ctx context.Context, id uuid.UUID) error
	MergeLabels(ctx context.Context, id uuid.UUID, labels []string) error
}

// EvidenceCapture enqueues media for asynchronous storage.
type EvidenceCapture interface {
	CaptureImage(eventId uuid.UUID, frame []byte) error
	CaptureAudio(eventId uuid.UUID, pcm []byte) error
}

// Terminator force-ends an attempt's proctoring session.
type Terminator interface {
	Terminate(ctx context.Context, attemptId uuid.UUID) error
}

// Publisher pushes confirmed events onto the proctor notification bus.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TabSwitchResult is what the tab switch endpoint reports back.
type TabSwitchResult struct {
	Count        int
	CheatingFlag bool
	Terminated   bool
}

type attemptKey struct {
	studentId uuid.UUID
	attemptId uuid.UUID
}

type attemptState struct {
	mu         sync.Mutex
	terminated bool
	tabCount   int
}

type Aggregator struct {
	store      EventStore
	capture    EvidenceCapture
	terminator Terminator
	publisher  Publisher
	warnings   *Mailbox
	log        logger.ILogger

	tabSwitchLimit int

	mu     sync.Mutex
	states map[attemptKey]*attemptState
}

func New(store EventStore, capture EvidenceCapture, terminator Terminator, publisher Publisher, warnings *Mailbox, tabSwitchLimit int, log logger.ILogger) *Aggregator {
	return &Aggregator{
		store:          store,
		capture:        capture,
		terminator:     terminator,
		publisher:      publisher,
		warnings:       warnings,
		log:            log,
		tabSwitchLimit: tabSwitchLimit,
		states:         make(map[attemptKey]*attemptState),
	}
}

func (a *Aggregator) state(studentId, attemptId uuid.UUID) *attemptState {
	key := attemptKey{studentId: studentId, attemptId: attemptId}
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.states[key]
	if !ok {
		st = &attemptState{}
		a.states[key] = st
	}
	return st
}

// Release forgets an attempt's in-memory state once its session ends.
func (a *Aggregator) Release(studentId, attemptId uuid.UUID) {
	a.mu.Lock()
	delete(a.states, attemptKey{studentId: studentId, attemptId: attemptId})
	a.mu.Unlock()
	a.warnings.Clear(attemptId.String())
}

// Warnings exposes the live warning mailbox.
func (a *Aggregator) Warnings() *Mailbox {
	return a.warnings
}

// OnFinding folds one detector verdict into the attempt's event state.
func (a *Aggregator) OnFinding(ctx context.Context, studentId, attemptId uuid.UUID, f detector.Finding) error {
	st := a.state(studentId, attemptId)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.terminated {
		return ErrAttemptTerminated
	}

	eventType, warning := classify(f)
	if eventType == "" {
		return nil
	}

	event, created, err := a.store.GetOrCreateOpen(ctx, studentId, attemptId, eventType)
	if err != nil {
		return fmt.Errorf("get or create event: %w", err)
	}

	if created {
		if err := a.store.SetConfirmed(ctx, event.Id); err != nil {
			return fmt.Errorf("confirm event: %w", err)
		}
		if a.publisher != nil {
			if err := a.publisher.Publish(ctx, events.NewCheatingConfirmed(
				event.Id, studentId, attemptId, eventType, f.Labels, 0)); err != nil {
				a.log.Warn("Aggregator", "Confirmed event publish failed", map[string]interface{}{
					"event_id": event.Id.String(),
					"error":    err.Error(),
				})
			}
		}
	}

	if len(f.Labels) > 0 {
		if err := a.store.MergeLabels(ctx, event.Id, f.Labels); err != nil {
			return fmt.Errorf("merge labels: %w", err)
		}
	}

	a.warnings.Set(attemptId.String(), warning)
	if f.Kind == detector.KindAudio {
		a.warnings.NoteAudio(attemptId.String())
	}

	if a.capture != nil && len(f.Segment) > 0 {
		var capErr error
		if f.Kind == detector.KindAudio {
			capErr = a.capture.CaptureAudio(event.Id, f.Segment)
		} else {
			capErr = a.capture.CaptureImage(event.Id, f.Segment)
		}
		if capErr != nil {
			a.log.Warn("Aggregator", "Evidence capture enqueue failed", map[string]interface{}{
				"event_id": event.Id.String(),
				"kind":     string(f.Kind),
				"error":    capErr.Error(),
			})
		}
	}

	return nil
}

// HandleTabSwitch counts a browser tab change. The count survives DB
// write failures via an in-memory mirror; once it exceeds the limit the
// attempt is terminated and further activity is rejected.
func (a *Aggregator) HandleTabSwitch(ctx context.Context, studentId, attemptId uuid.UUID) (TabSwitchResult, error) {
	st := a.state(studentId, attemptId)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.terminated {
		return TabSwitchResult{Count: st.tabCount, CheatingFlag: true, Terminated: true}, ErrAttemptTerminated
	}

	st.tabCount++
	count := st.tabCount

	event, _, err := a.store.GetOrCreateOpen(ctx, studentId, attemptId, entity.EventTabSwitch)
	if err != nil {
		a.log.Error("Aggregator", "Tab switch event lookup failed, counting in memory", map[string]interface{}{
			"attempt_id": attemptId.String(),
			"error":      err.Error(),
		})
	} else {
		dbCount, incErr := a.store.IncrementTabSwitch(ctx, event.Id)
		if incErr != nil {
			a.log.Error("Aggregator", "Tab switch increment failed, counting in memory", map[string]interface{}{
				"event_id": event.Id.String(),
				"error":    incErr.Error(),
			})
		} else {
			if dbCount > count {
				count = dbCount
			}
			st.tabCount = count
		}
		if count >= 1 && !event.CheatingFlag {
			if err := a.store.SetConfirmed(ctx, event.Id); err != nil {
				a.log.Error("Aggregator", "Tab switch confirm failed", map[string]interface{}{
					"event_id": event.Id.String(),
					"error":    err.Error(),
				})
			}
		}
	}

	if count > a.tabSwitchLimit {
		st.terminated = true
		if a.terminator != nil {
			if err := a.terminator.Terminate(ctx, attemptId); err != nil {
				return TabSwitchResult{Count: count, CheatingFlag: true, Terminated: true},
					fmt.Errorf("terminate attempt: %w", err)
			}
		}
		if a.publisher != nil && event != nil {
			if err := a.publisher.Publish(ctx, events.NewCheatingConfirmed(
				event.Id, studentId, attemptId, entity.EventTabSwitch, nil, count)); err != nil {
				a.log.Warn("Aggregator", "Termination event publish failed", map[string]interface{}{
					"event_id": event.Id.String(),
					"error":    err.Error(),
				})
			}
		}
		return TabSwitchResult{Count: count, CheatingFlag: true, Terminated: true}, nil
	}

	return TabSwitchResult{Count: count, CheatingFlag: count >= 1, Terminated: false}, nil
}

// MarkTerminated records an externally decided termination so later
// findings are rejected.
func (a *Aggregator) MarkTerminated(studentId, attemptId uuid.UUID) {
	st := a.state(studentId, attemptId)
	st.mu.Lock()
	st.terminated = true
	st.mu.Unlock()
}

func classify(f detector.Finding) (eventType, warning string) {
	switch f.Kind {
	case detector.KindObject:
		if len(f.Labels) == 0 {
			return "", ""
		}
		return entity.EventObjectDetected,
			fmt.Sprintf("ALERT: %s detected!", strings.Join(f.Labels, ", "))
	case detector.KindMultiplePersons:
		return entity.EventMultiplePersons, "ALERT: Multiple persons detected!"
	case detector.KindGaze:
		return entity.EventGazeDetected, "ALERT: Candidate not looking at the screen!"
	case detector.KindAudio:
		return entity.EventAudioDetected, "ALERT: Suspicious audio detected!"
	default:
		return "", ""
	}
}
