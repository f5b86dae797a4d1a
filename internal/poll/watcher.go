package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/metrics"
)

// ConversationAPI is the slice of the upstream client a watcher needs.
type ConversationAPI interface {
	Messages(ctx context.Context, conversationID string) ([]model.Message, error)
	MarkRead(ctx context.Context, conversationID string) error
}

// UpdateFunc receives the merged message list and unread flag after every
// change.
type UpdateFunc func(conversationID string, messages []model.Message, unread bool)

// Watcher keeps one open conversation in sync. It runs two independent
// cadences: a short message-refresh interval and a longer mark-read interval
// gated by the unread flag. Both are torn down together when the context is
// cancelled.
type Watcher struct {
	conversationID string
	selfID         string
	api            ConversationAPI
	tracker        *ReadTracker
	onUpdate       UpdateFunc
	logger         *logger.Logger

	refreshInterval  time.Duration
	markReadInterval time.Duration

	mu       sync.Mutex
	messages []model.Message
	seeded   bool
}

// WatcherConfig configures a conversation watcher.
type WatcherConfig struct {
	ConversationID   string
	SelfID           string
	RefreshInterval  time.Duration
	MarkReadInterval time.Duration
	OnUpdate         UpdateFunc
}

// NewWatcher creates a watcher for one conversation.
func NewWatcher(cfg WatcherConfig, api ConversationAPI, log *logger.Logger) *Watcher {
	return &Watcher{
		conversationID:   cfg.ConversationID,
		selfID:           cfg.SelfID,
		api:              api,
		tracker:          &ReadTracker{},
		onUpdate:         cfg.OnUpdate,
		logger:           log,
		refreshInterval:  cfg.RefreshInterval,
		markReadInterval: cfg.MarkReadInterval,
	}
}

// Run opens the conversation (immediate fetch plus an unconditional
// mark-read) and then services both timers until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	metrics.WatchersActive.Inc()
	defer metrics.WatchersActive.Dec()

	w.Refresh(ctx)
	w.markRead(ctx)

	refresh := time.NewTicker(w.refreshInterval)
	defer refresh.Stop()
	markRead := time.NewTicker(w.markReadInterval)
	defer markRead.Stop()

	for {
		select {
		case <-ctx.Done():
			if w.tracker.MarkSynced() {
				metrics.UnreadConversations.Dec()
			}
			return
		case <-refresh.C:
			w.Refresh(ctx)
		case <-markRead.C:
			// Gated by the unread flag, not fired unconditionally, to keep
			// within upstream rate limits.
			if w.tracker.ShouldSync() {
				w.markRead(ctx)
			}
		}
	}
}

// Refresh fetches the message list once and merges it into the held state.
func (w *Watcher) Refresh(ctx context.Context) {
	fetched, err := w.api.Messages(ctx, w.conversationID)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("message refresh failed",
				zap.String("conversation_id", w.conversationID), zap.Error(err))
		}
		return
	}
	// The view may have been torn down while the request was in flight;
	// drop the late response instead of updating disposed state.
	if ctx.Err() != nil {
		return
	}

	w.mu.Lock()
	hasNew := w.detectNew(fetched)
	w.messages = mergeMessages(w.messages, fetched)
	w.seeded = true
	snapshot := w.snapshotLocked()
	w.mu.Unlock()

	if hasNew && w.tracker.NoteIncoming() {
		metrics.UnreadConversations.Inc()
	}

	w.notify(snapshot)
}

// NoteSent records a server-confirmed message sent by the current user. The
// unread flag is cleared locally with no round trip.
func (w *Watcher) NoteSent(msg model.Message) {
	w.mu.Lock()
	found := false
	for _, m := range w.messages {
		if m.ID == msg.ID {
			found = true
			break
		}
	}
	if !found {
		w.messages = append(w.messages, msg)
	}
	snapshot := w.snapshotLocked()
	w.mu.Unlock()

	if w.tracker.NoteSelfSend() {
		metrics.UnreadConversations.Dec()
	}

	w.notify(snapshot)
}

// Messages returns a copy of the held message list.
func (w *Watcher) Messages() []model.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Unread reports the current unread flag.
func (w *Watcher) Unread() bool {
	return w.tracker.Unread()
}

// detectNew implements the last-element heuristic: a longer list or a tail id
// mismatch means new messages, unless the newest message is the user's own.
// The first fetch after open only seeds the baseline; the open flow has
// already marked the conversation read. A reordered or truncated server page
// can defeat this heuristic in both directions; that behavior is pinned by
// tests rather than corrected.
func (w *Watcher) detectNew(fetched []model.Message) bool {
	if !w.seeded || len(fetched) == 0 {
		return false
	}
	newest := fetched[len(fetched)-1]
	if newest.SenderID == w.selfID {
		return false
	}
	if len(fetched) > len(w.messages) {
		return true
	}
	if len(w.messages) == 0 {
		return true
	}
	return w.messages[len(w.messages)-1].ID != newest.ID
}

// mergeMessages deduplicates by message id, keeping the fetch response's
// first-occurrence order as canonical. Held messages the server has not
// echoed yet (confirmed sends between polls) stay at the tail.
func mergeMessages(current, fetched []model.Message) []model.Message {
	seen := make(map[string]struct{}, len(fetched))
	merged := make([]model.Message, 0, len(fetched))
	for _, m := range fetched {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range current {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}
	return merged
}

func (w *Watcher) markRead(ctx context.Context) {
	if err := w.api.MarkRead(ctx, w.conversationID); err != nil {
		// Keep the flag set so the next tick retries.
		if w.logger != nil {
			w.logger.Warn("mark-read failed",
				zap.String("conversation_id", w.conversationID), zap.Error(err))
		}
		return
	}
	metrics.MarkReadCallsTotal.Inc()
	if w.tracker.MarkSynced() {
		metrics.UnreadConversations.Dec()
	}
}

func (w *Watcher) snapshotLocked() []model.Message {
	out := make([]model.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func (w *Watcher) notify(messages []model.Message) {
	if w.onUpdate != nil {
		w.onUpdate(w.conversationID, messages, w.tracker.Unread())
	}
}
