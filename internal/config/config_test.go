package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UpstreamURL != "http://localhost:8000/api/v1" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.MessageRefreshInterval != 5*time.Second {
		t.Errorf("MessageRefreshInterval = %v, want 5s", cfg.MessageRefreshInterval)
	}
	if cfg.MarkReadInterval != 20*time.Second {
		t.Errorf("MarkReadInterval = %v, want 20s", cfg.MarkReadInterval)
	}
	if cfg.ListRefreshInterval != 30*time.Second {
		t.Errorf("ListRefreshInterval = %v, want 30s", cfg.ListRefreshInterval)
	}
	if cfg.OutboxCapacity != 256 {
		t.Errorf("OutboxCapacity = %d, want 256", cfg.OutboxCapacity)
	}
	if cfg.Role != "employee" {
		t.Errorf("Role = %q, want employee", cfg.Role)
	}
	if cfg.NATSURL != "" {
		t.Errorf("NATSURL = %q, want empty", cfg.NATSURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "https://crew.example.com/api/v1")
	t.Setenv("MESSAGE_REFRESH_INTERVAL", "2s")
	t.Setenv("MARK_READ_INTERVAL", "10s")
	t.Setenv("AGENT_EMAIL", "worker@example.com")
	t.Setenv("AGENT_ROLE", "admin")
	t.Setenv("OUTBOX_CAPACITY", "8")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UpstreamURL != "https://crew.example.com/api/v1" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.MessageRefreshInterval != 2*time.Second {
		t.Errorf("MessageRefreshInterval = %v", cfg.MessageRefreshInterval)
	}
	if cfg.MarkReadInterval != 10*time.Second {
		t.Errorf("MarkReadInterval = %v", cfg.MarkReadInterval)
	}
	if cfg.Email != "worker@example.com" {
		t.Errorf("Email = %q", cfg.Email)
	}
	if cfg.Role != "admin" {
		t.Errorf("Role = %q", cfg.Role)
	}
	if cfg.OutboxCapacity != 8 {
		t.Errorf("OutboxCapacity = %d", cfg.OutboxCapacity)
	}
	if !cfg.TracingEnabled {
		t.Error("TracingEnabled = false, want true")
	}
}

func TestLoadRejectsMarkReadFasterThanRefresh(t *testing.T) {
	t.Setenv("MESSAGE_REFRESH_INTERVAL", "10s")
	t.Setenv("MARK_READ_INTERVAL", "5s")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestLoadRejectsBadOutboxCapacity(t *testing.T) {
	t.Setenv("OUTBOX_CAPACITY", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("LIST_REFRESH_INTERVAL", "soon")
	t.Setenv("OUTBOX_MAX_RETRIES", "many")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListRefreshInterval != 30*time.Second {
		t.Errorf("ListRefreshInterval = %v, want default 30s", cfg.ListRefreshInterval)
	}
	if cfg.OutboxMaxRetries != 3 {
		t.Errorf("OutboxMaxRetries = %d, want default 3", cfg.OutboxMaxRetries)
	}
}
