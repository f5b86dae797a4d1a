package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/internal/session"
	"github.com/crewhub-app/sync-agent/internal/state"
)

type fakeBroker struct{ connected bool }

func (f *fakeBroker) IsConnected() bool { return f.connected }

// envelope mirrors the wire shape every local endpoint writes.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestHealthAlwaysOK(t *testing.T) {
	h := NewHealthHandler(session.New(), nil)
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if env := decodeEnvelope(t, rec); !env.Success {
		t.Error("success = false")
	}
}

func TestReadyWithoutSession(t *testing.T) {
	h := NewHealthHandler(session.New(), nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success = true on a failed readiness check")
	}
	if env.Message != "no active session" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestReadyWithDisconnectedBroker(t *testing.T) {
	sess := session.New()
	sess.SetToken("tok")
	h := NewHealthHandler(sess, &fakeBroker{connected: false})
	rec := httptest.NewRecorder()

	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "event broker not connected" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestReadyWhenHealthy(t *testing.T) {
	sess := session.New()
	sess.SetToken("tok")
	h := NewHealthHandler(sess, &fakeBroker{connected: true})
	rec := httptest.NewRecorder()

	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestStateTicketsSnapshot(t *testing.T) {
	store := state.New()
	store.SetTickets([]model.Ticket{{ID: "t1", Title: "Broken register"}})
	h := NewStateHandler(store)

	rec := httptest.NewRecorder()
	h.Tickets(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state/tickets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("success = false")
	}
	var tickets []model.Ticket
	if err := json.Unmarshal(env.Data, &tickets); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "t1" {
		t.Errorf("tickets = %+v", tickets)
	}
}

func TestStateMessagesSnapshot(t *testing.T) {
	store := state.New()
	store.SetMessages("c1", []model.Message{{ID: "m1", Content: "hello"}}, true)
	h := NewStateHandler(store)

	r := chi.NewRouter()
	r.Get("/api/v1/state/conversations/{id}/messages", h.Messages)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state/conversations/c1/messages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Messages []model.Message `json:"messages"`
		Unread   bool            `json:"unread"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].ID != "m1" {
		t.Errorf("messages = %+v", body.Messages)
	}
	if !body.Unread {
		t.Error("unread = false, want true")
	}
}

func TestStateMessagesUnknownConversation(t *testing.T) {
	h := NewStateHandler(state.New())

	r := chi.NewRouter()
	r.Get("/api/v1/state/conversations/{id}/messages", h.Messages)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/state/conversations/nope/messages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Messages []model.Message `json:"messages"`
		Unread   bool            `json:"unread"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(body.Messages) != 0 || body.Unread {
		t.Errorf("body = %+v, want empty", body)
	}
}

// The local surface writes the same envelope the upstream API speaks, so the
// api package's decoder can read these snapshots unchanged.
func TestErrorEnvelopeShape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "missing conversation id")

	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success = true in an error envelope")
	}
	if env.Message != "missing conversation id" {
		t.Errorf("message = %q", env.Message)
	}
	if len(env.Data) != 0 {
		t.Errorf("data = %s, want absent", env.Data)
	}
}
