package poll

import "testing"

func TestReadTrackerTransitions(t *testing.T) {
	tr := &ReadTracker{}

	if tr.Unread() {
		t.Fatal("new tracker reports unread")
	}
	if tr.ShouldSync() {
		t.Fatal("new tracker wants a sync")
	}

	if !tr.NoteIncoming() {
		t.Error("first NoteIncoming did not report a transition")
	}
	if tr.NoteIncoming() {
		t.Error("second NoteIncoming reported a transition")
	}
	if !tr.ShouldSync() {
		t.Error("unread tracker does not want a sync")
	}

	if !tr.MarkSynced() {
		t.Error("MarkSynced did not report a transition")
	}
	if tr.MarkSynced() {
		t.Error("MarkSynced on clean tracker reported a transition")
	}
	if tr.ShouldSync() {
		t.Error("synced tracker still wants a sync")
	}
}

func TestReadTrackerSelfSendClears(t *testing.T) {
	tr := &ReadTracker{}
	tr.NoteIncoming()

	if !tr.NoteSelfSend() {
		t.Error("self-send did not clear the flag")
	}
	if tr.ShouldSync() {
		t.Error("tracker wants a sync after a self-send cleared it")
	}
	if tr.NoteSelfSend() {
		t.Error("self-send on clean tracker reported a transition")
	}
}
