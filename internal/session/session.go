// Package session holds the current upstream credential. It is the single
// source of truth for the bearer token and is passed explicitly to the API
// client instead of being read from ambient process state, so tests and
// multi-session setups construct their own instances.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crewhub-app/sync-agent/internal/model"
)

// Session is a thread-safe container for the bearer token and the identity
// it belongs to. Writes are rare and user-driven; last writer wins.
type Session struct {
	mu        sync.RWMutex
	token     string
	employee  model.Employee
	expiresAt time.Time
	onExpired func()
}

// New creates an empty session.
func New() *Session {
	return &Session{}
}

// OnExpired registers the login-boundary hook, invoked once whenever the
// session is invalidated (explicitly or by an upstream 401).
func (s *Session) OnExpired(fn func()) {
	s.mu.Lock()
	s.onExpired = fn
	s.mu.Unlock()
}

// SetToken stores a new bearer token and peeks at its claims. Tokens that are
// not JWTs are accepted as-is; the claim peek is best-effort and unverified,
// used only for expiry display and identity hints.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expiresAt = time.Time{}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.expiresAt = exp.Time
		}
		if sub, err := claims.GetSubject(); err == nil && sub != "" && s.employee.ID == "" {
			s.employee.ID = sub
		}
	}
}

// SetEmployee records the identity returned by the login call.
func (s *Session) SetEmployee(e model.Employee) {
	s.mu.Lock()
	s.employee = e
	s.mu.Unlock()
}

// Token returns the current bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// EmployeeID returns the id of the logged-in user.
func (s *Session) EmployeeID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employee.ID
}

// Employee returns the logged-in identity.
func (s *Session) Employee() model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employee
}

// Role returns the logged-in user's role.
func (s *Session) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employee.Role
}

// ExpiresAt returns the token expiry, or the zero time when unknown.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Invalidate clears the stored token and fires the expiry hook. Called on
// logout and whenever the upstream answers 401.
func (s *Session) Invalidate() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.expiresAt = time.Time{}
	hook := s.onExpired
	s.mu.Unlock()

	if wasAuthenticated && hook != nil {
		hook()
	}
}
