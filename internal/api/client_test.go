package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crewhub-app/sync-agent/internal/model"
	"github.com/crewhub-app/sync-agent/internal/session"
	"github.com/crewhub-app/sync-agent/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.New()
	client := New(Config{
		BaseURL:  srv.URL,
		CSRFPath: "/sanctum/csrf-cookie",
		Timeout:  5 * time.Second,
	}, sess, logger.NewNop())
	return client, sess
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"tickets":[]}}`))
	}))
	sess.SetToken("tok-123")

	if _, err := client.Tickets(context.Background()); err != nil {
		t.Fatalf("Tickets() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestUnauthorizedInvalidatesSession(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	sess.SetToken("stale")

	fired := false
	sess.OnExpired(func() { fired = true })

	_, err := client.Tickets(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if sess.Authenticated() {
		t.Error("session still authenticated after 401")
	}
	if !fired {
		t.Error("expiry hook did not fire")
	}
}

func TestValidationErrorFlattened(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"The given data was invalid.","errors":{"title":["title is required"],"category":["unknown category"]}}`))
	}))

	_, err := client.CreateTicket(context.Background(), model.CreateTicketRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	// Fields flatten in sorted key order.
	want := "unknown category; title is required"
	if verr.Message != want {
		t.Errorf("Message = %q, want %q", verr.Message, want)
	}
	if len(verr.Fields["title"]) != 1 {
		t.Errorf("Fields[title] = %v", verr.Fields["title"])
	}
}

func TestSuccessFalseIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"ticket quota exceeded"}`))
	}))

	_, err := client.Tickets(context.Background())
	var aerr *APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if aerr.Message != "ticket quota exceeded" {
		t.Errorf("Message = %q", aerr.Message)
	}
}

func TestServerErrorIsAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>boom</html>`))
	}))

	_, err := client.Tickets(context.Background())
	var aerr *APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if aerr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", aerr.StatusCode)
	}
}

func TestPayloadUnderDataField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"tickets":[{"id":"t1","title":"broken register"}]}}`))
	}))

	tickets, err := client.Tickets(context.Background())
	if err != nil {
		t.Fatalf("Tickets() error = %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "t1" {
		t.Errorf("tickets = %+v", tickets)
	}
}

func TestPayloadAtTopLevel(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tickets":[{"id":"t2","title":"freezer down"}]}`))
	}))

	tickets, err := client.Tickets(context.Background())
	if err != nil {
		t.Fatalf("Tickets() error = %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != "t2" {
		t.Errorf("tickets = %+v", tickets)
	}
}

func TestLoginPrimesCSRFAndStoresToken(t *testing.T) {
	var gotCSRFHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("/sanctum/csrf-cookie", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "csrf-abc%3D", Path: "/"})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/employee/login", func(w http.ResponseWriter, r *http.Request) {
		gotCSRFHeader = r.Header.Get("X-XSRF-TOKEN")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"token":"bearer-xyz","employee":{"id":"emp-7","name":"Sam","role":"employee"}}}`))
	})

	client, sess := newTestClient(t, mux)

	result, err := client.Login(context.Background(), model.RoleEmployee, "sam@example.com", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if gotCSRFHeader != "csrf-abc=" {
		t.Errorf("X-XSRF-TOKEN = %q, want csrf-abc=", gotCSRFHeader)
	}
	if result.Token != "bearer-xyz" {
		t.Errorf("Token = %q", result.Token)
	}
	if sess.Token() != "bearer-xyz" {
		t.Errorf("session token = %q", sess.Token())
	}
	if sess.EmployeeID() != "emp-7" {
		t.Errorf("EmployeeID = %q", sess.EmployeeID())
	}
}

func TestLoginWithoutToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"employee":{"id":"emp-7"}}}`))
	}))

	if _, err := client.Login(context.Background(), model.RoleEmployee, "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for token-less login response")
	}
}

func TestAdminRolePrefix(t *testing.T) {
	var gotPath string
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"tickets":[]}}`))
	}))
	sess.SetEmployee(model.Employee{ID: "adm-1", Role: model.RoleAdmin})

	if _, err := client.Tickets(context.Background()); err != nil {
		t.Fatalf("Tickets() error = %v", err)
	}
	if gotPath != "/admin/tickets" {
		t.Errorf("path = %q, want /admin/tickets", gotPath)
	}
}
