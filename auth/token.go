package auth

import "sync"

// TokenSource supplies the current bearer token for outgoing requests.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Token returns ErrNoToken when no credential is held; the
//   transport then sends the request unauthenticated.
type TokenSource interface {
	// Token returns the current bearer token.
	Token() (string, error)
}

// StaticToken is a TokenSource holding a fixed token.
type StaticToken string

// Token returns the token, or ErrNoToken when empty.
func (s StaticToken) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// SessionToken is a mutable TokenSource for login/logout cycles.
type SessionToken struct {
	mu    sync.RWMutex
	token string
}

// NewSessionToken creates an empty session token holder.
func NewSessionToken() *SessionToken {
	return &SessionToken{}
}

// Token returns the current token, or ErrNoToken after logout.
func (s *SessionToken) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Set replaces the held token.
func (s *SessionToken) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the held token.
func (s *SessionToken) Clear() {
	s.Set("")
}

// Ensure implementations satisfy TokenSource
var (
	_ TokenSource = StaticToken("")
	_ TokenSource = (*SessionToken)(nil)
)
