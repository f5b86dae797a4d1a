package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crewhub-app/sync-agent/internal/model"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestSetTokenPeeksClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": "emp-42",
		"exp": exp.Unix(),
	})

	s := New()
	s.SetToken(token)

	if !s.Authenticated() {
		t.Fatal("Authenticated() = false after SetToken")
	}
	if got := s.EmployeeID(); got != "emp-42" {
		t.Errorf("EmployeeID() = %q, want emp-42", got)
	}
	if got := s.ExpiresAt(); !got.Equal(exp) {
		t.Errorf("ExpiresAt() = %v, want %v", got, exp)
	}
}

func TestSetTokenAcceptsOpaqueToken(t *testing.T) {
	s := New()
	s.SetToken("not-a-jwt")

	if got := s.Token(); got != "not-a-jwt" {
		t.Errorf("Token() = %q", got)
	}
	if !s.ExpiresAt().IsZero() {
		t.Errorf("ExpiresAt() = %v, want zero", s.ExpiresAt())
	}
}

func TestSetEmployeeWinsOverClaimPeek(t *testing.T) {
	s := New()
	s.SetToken(signedToken(t, jwt.MapClaims{"sub": "from-claims"}))
	s.SetEmployee(model.Employee{ID: "emp-1", Role: model.RoleAdmin})

	if got := s.EmployeeID(); got != "emp-1" {
		t.Errorf("EmployeeID() = %q, want emp-1", got)
	}
	if got := s.Role(); got != model.RoleAdmin {
		t.Errorf("Role() = %q, want admin", got)
	}
}

func TestInvalidateFiresHookOnce(t *testing.T) {
	s := New()
	fired := 0
	s.OnExpired(func() { fired++ })

	s.SetToken("tok")
	s.Invalidate()
	s.Invalidate()

	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}
	if s.Authenticated() {
		t.Error("Authenticated() = true after Invalidate")
	}
}

func TestInvalidateWithoutTokenDoesNotFire(t *testing.T) {
	s := New()
	fired := 0
	s.OnExpired(func() { fired++ })

	s.Invalidate()

	if fired != 0 {
		t.Errorf("hook fired %d times, want 0", fired)
	}
}
