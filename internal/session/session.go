// Package session tracks per-admin multi-step workflow state. Sessions are
// process-lifetime only: a restart drops any workflow in progress.
package session

import "sync"

// Step identifies the admin's current position within a workflow.
type Step int

const (
	// StepAwaitVideo waits for the media attachment of a new movie.
	StepAwaitVideo Step = iota + 1
	// StepAwaitCode waits for the code to assign to the held video.
	StepAwaitCode
	// StepAddChannelID waits for a gate channel's ID.
	StepAddChannelID
	// StepAddChannelLink waits for the gate channel's invite link.
	StepAddChannelLink
	// StepAddChannelName waits for the gate channel's display name.
	StepAddChannelName
	// StepBroadcast waits for the message to fan out to all users.
	StepBroadcast
)

// Session is the admin's workflow state: the current step plus exactly the
// partial input that step has accumulated.
type Session struct {
	Step Step

	// StepAwaitCode: the held upload.
	FileID  string
	Caption string

	// Channel registration steps: fields fill in as the workflow advances.
	ChannelID   string
	ChannelLink string
}

// Tracker maps sender identity to an open session. Set replaces any prior
// session unconditionally; restarting a different flow silently discards a
// stale one.
type Tracker struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[int64]Session)}
}

// Set stores the session for the given sender, replacing any existing one.
func (t *Tracker) Set(userID int64, s Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[userID] = s
}

// Get returns the open session for the sender, if any.
func (t *Tracker) Get(userID int64) (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[userID]
	return s, ok
}

// Clear removes the sender's session.
func (t *Tracker) Clear(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, userID)
}
