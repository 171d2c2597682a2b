package aggregator

import (
	"sync"
	"time"
)

// Mailbox holds the latest live warning per attempt for the exam page
// to poll. A warning expires once the decay window passes with no
// refresh; suspicious audio refreshes the window without rewriting the
// message.
type Mailbox struct {
	mu      sync.Mutex
	decay   time.Duration
	now     func() time.Time
	entries map[string]*warningEntry
}

type warningEntry struct {
	message     string
	setAt       time.Time
	lastAudioAt time.Time
}

func NewMailbox(decay time.Duration) *Mailbox {
	return &Mailbox{
		decay:   decay,
		now:     time.Now,
		entries: make(map[string]*warningEntry),
	}
}

// WithClock overrides the time source, for tests.
func (m *Mailbox) WithClock(now func() time.Time) *Mailbox {
	m.now = now
	return m
}

// Set replaces the attempt's warning and restarts its decay window.
func (m *Mailbox) Set(attemptId, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[attemptId]
	if !ok {
		entry = &warningEntry{}
		m.entries[attemptId] = entry
	}
	entry.message = message
	entry.setAt = m.now()
}

// NoteAudio records loud audio activity, keeping the current warning
// alive while the candidate's environment stays noisy.
func (m *Mailbox) NoteAudio(attemptId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[attemptId]; ok {
		entry.lastAudioAt = m.now()
	}
}

// Get returns the attempt's live warning, or empty once it has decayed.
func (m *Mailbox) Get(attemptId string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[attemptId]
	if !ok {
		return ""
	}

	freshest := entry.setAt
	if entry.lastAudioAt.After(freshest) {
		freshest = entry.lastAudioAt
	}
	if m.now().Sub(freshest) >= m.decay {
		delete(m.entries, attemptId)
		return ""
	}
	return entry.message
}

// Clear drops the attempt's warning state entirely, used when the
// session ends.
func (m *Mailbox) Clear(attemptId string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, attemptId)
}
