package aggregator

import (
	"testing"
	"time"
)

func TestMailboxDecay(t *testing.T) {
	now := time.Unix(1000, 0)
	mb := NewMailbox(5 * time.Second).WithClock(func() time.Time { return now })

	mb.Set("attempt-1", "ALERT: Suspicious audio detected!")

	now = now.Add(3 * time.Second)
	if got := mb.Get("attempt-1"); got == "" {
		t.Fatal("warning decayed too early")
	}

	now = now.Add(3 * time.Second)
	if got := mb.Get("attempt-1"); got != "" {
		t.Fatalf("warning should have decayed, got %q", got)
	}
}

func TestMailboxAudioActivityExtendsWarning(t *testing.T) {
	now := time.Unix(1000, 0)
	mb := NewMailbox(5 * time.Second).WithClock(func() time.Time { return now })

	mb.Set("attempt-1", "ALERT: Suspicious audio detected!")

	// Loud audio keeps arriving every 4 seconds; the warning holds.
	for i := 0; i < 3; i++ {
		now = now.Add(4 * time.Second)
		mb.NoteAudio("attempt-1")
		if got := mb.Get("attempt-1"); got == "" {
			t.Fatalf("warning dropped while audio was active (round %d)", i)
		}
	}

	// Silence for the full decay window clears it.
	now = now.Add(5 * time.Second)
	if got := mb.Get("attempt-1"); got != "" {
		t.Fatalf("warning should clear after silence, got %q", got)
	}
}

func TestMailboxOverwriteRestartsWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	mb := NewMailbox(5 * time.Second).WithClock(func() time.Time { return now })

	mb.Set("attempt-1", "ALERT: book detected!")
	now = now.Add(4 * time.Second)
	mb.Set("attempt-1", "ALERT: Multiple persons detected!")

	now = now.Add(4 * time.Second)
	if got := mb.Get("attempt-1"); got != "ALERT: Multiple persons detected!" {
		t.Fatalf("got %q, want the newer warning to survive", got)
	}
}

func TestMailboxUnknownAttempt(t *testing.T) {
	mb := NewMailbox(5 * time.Second)
	if got := mb.Get("nope"); got != "" {
		t.Fatalf("unknown attempt warning = %q, want empty", got)
	}
}
