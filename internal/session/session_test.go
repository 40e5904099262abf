package session_test

import (
	"testing"

	"github.com/ozodbek/kinokodbot/internal/session"
)

func TestTrackerSetGetClear(t *testing.T) {
	t.Parallel()

	tracker := session.NewTracker()
	const adminID int64 = 42

	if _, ok := tracker.Get(adminID); ok {
		t.Fatal("expected no session for fresh tracker")
	}

	tracker.Set(adminID, session.Session{Step: session.StepAwaitVideo})

	got, ok := tracker.Get(adminID)
	if !ok {
		t.Fatal("expected session after Set")
	}
	if got.Step != session.StepAwaitVideo {
		t.Fatalf("expected StepAwaitVideo, got %v", got.Step)
	}

	tracker.Clear(adminID)
	if _, ok := tracker.Get(adminID); ok {
		t.Fatal("expected no session after Clear")
	}
}

func TestTrackerSetReplacesUnconditionally(t *testing.T) {
	t.Parallel()

	tracker := session.NewTracker()
	const adminID int64 = 42

	tracker.Set(adminID, session.Session{
		Step:    session.StepAwaitCode,
		FileID:  "file-1",
		Caption: "Old Movie",
	})
	tracker.Set(adminID, session.Session{Step: session.StepBroadcast})

	got, ok := tracker.Get(adminID)
	if !ok {
		t.Fatal("expected session")
	}
	if got.Step != session.StepBroadcast {
		t.Fatalf("expected StepBroadcast after overwrite, got %v", got.Step)
	}
	if got.FileID != "" || got.Caption != "" {
		t.Fatalf("expected stale upload fields to be discarded, got %+v", got)
	}
}

func TestTrackerKeysAreIndependent(t *testing.T) {
	t.Parallel()

	tracker := session.NewTracker()

	tracker.Set(1, session.Session{Step: session.StepAwaitVideo})
	tracker.Set(2, session.Session{Step: session.StepAddChannelID})

	tracker.Clear(1)

	if _, ok := tracker.Get(1); ok {
		t.Fatal("expected session 1 cleared")
	}
	got, ok := tracker.Get(2)
	if !ok || got.Step != session.StepAddChannelID {
		t.Fatalf("expected session 2 untouched, got %+v ok=%v", got, ok)
	}
}

func TestSessionStepPayloads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		sess session.Session
	}{
		{
			name: "await_code carries the held upload",
			sess: session.Session{Step: session.StepAwaitCode, FileID: "f1", Caption: "Kino"},
		},
		{
			name: "add_ch_link carries the channel id",
			sess: session.Session{Step: session.StepAddChannelLink, ChannelID: "-100123"},
		},
		{
			name: "add_ch_name carries id and link",
			sess: session.Session{Step: session.StepAddChannelName, ChannelID: "-100123", ChannelLink: "https://t.me/x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tracker := session.NewTracker()
			tracker.Set(7, tc.sess)

			got, ok := tracker.Get(7)
			if !ok {
				t.Fatal("expected session")
			}
			if got != tc.sess {
				t.Fatalf("expected %+v, got %+v", tc.sess, got)
			}
		})
	}
}
