package poll

import (
	"sync"
)

// ReadTracker decides when a conversation needs a mark-read round trip. The
// unread flag is the only state shared between the message-refresh and
// mark-read timers; it is set by incoming-message detection, cleared locally
// by self-sends, and cleared after a successful server call.
type ReadTracker struct {
	mu     sync.Mutex
	unread bool
}

// NoteIncoming flags the conversation unread. Returns true when the flag
// actually transitioned, so callers can update gauges once per transition.
func (t *ReadTracker) NoteIncoming() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unread {
		return false
	}
	t.unread = true
	return true
}

// NoteSelfSend clears the flag without a round trip: the user cannot be
// behind on their own message. Returns true on transition.
func (t *ReadTracker) NoteSelfSend() bool {
	return t.clear()
}

// ShouldSync reports whether a background tick needs to call mark-read.
func (t *ReadTracker) ShouldSync() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unread
}

// MarkSynced clears the flag after a successful mark-read call. Returns true
// on transition.
func (t *ReadTracker) MarkSynced() bool {
	return t.clear()
}

// Unread reports the current flag.
func (t *ReadTracker) Unread() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unread
}

func (t *ReadTracker) clear() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.unread {
		return false
	}
	t.unread = false
	return true
}
