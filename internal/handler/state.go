package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewhub-app/sync-agent/internal/state"
)

// StateHandler serves read-only snapshots of the synced caches.
type StateHandler struct {
	store *state.Store
}

// NewStateHandler creates a state handler.
func NewStateHandler(store *state.Store) *StateHandler {
	return &StateHandler{store: store}
}

// Profile handles GET /api/v1/state/profile
func (h *StateHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.Employee())
}

// OnboardingPages handles GET /api/v1/state/onboarding-pages
func (h *StateHandler) OnboardingPages(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.OnboardingPages())
}

// TrainingModules handles GET /api/v1/state/training-modules
func (h *StateHandler) TrainingModules(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.TrainingModules())
}

// Tickets handles GET /api/v1/state/tickets
func (h *StateHandler) Tickets(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.Tickets())
}

// TimeOff handles GET /api/v1/state/time-off
func (h *StateHandler) TimeOff(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.TimeOff())
}

// Conversations handles GET /api/v1/state/conversations
func (h *StateHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.store.Conversations())
}

// Messages handles GET /api/v1/state/conversations/{id}/messages
func (h *StateHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing conversation id")
		return
	}
	messages, unread := h.store.Messages(id)
	writeData(w, http.StatusOK, map[string]any{
		"messages": messages,
		"unread":   unread,
	})
}
