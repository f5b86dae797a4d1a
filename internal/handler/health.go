// Package handler provides the agent's local read-only HTTP surface.
package handler

import (
	"net/http"

	"github.com/crewhub-app/sync-agent/internal/session"
)

// Connectivity reports broker health for the readiness probe.
type Connectivity interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	session *session.Session
	broker  Connectivity
}

// NewHealthHandler creates a health handler. broker may be nil when event
// fan-out is disabled.
func NewHealthHandler(sess *session.Session, broker Connectivity) *HealthHandler {
	return &HealthHandler{session: sess, broker: broker}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.session.Authenticated() {
		writeError(w, http.StatusServiceUnavailable, "no active session")
		return
	}
	if h.broker != nil && !h.broker.IsConnected() {
		writeError(w, http.StatusServiceUnavailable, "event broker not connected")
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
