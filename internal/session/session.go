// Package session is the explicit auth context handed to every entity hook.
// It is created at startup in the loading state, becomes authenticated on
// SignIn and is torn down by SignOut.
package session

import (
	"sync"
	"time"
)

// State of the session lifecycle.
type State int

const (
	StateLoading State = iota
	StateAuthenticated
	StateSignedOut
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateSignedOut:
		return "signed_out"
	}
	return "unknown"
}

// Identity is the signed-in user.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// TokenVerifier turns an access token into an identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Session is safe for concurrent use.
type Session struct {
	verifier TokenVerifier

	mu        sync.RWMutex
	state     State
	identity  Identity
	token     string
	onSignOut []func(Identity)
}

func New(verifier TokenVerifier) *Session {
	return &Session{verifier: verifier, state: StateLoading}
}

// SignIn verifies token and authenticates the session. On failure the session
// is signed out rather than left loading.
func (s *Session) SignIn(token string) (Identity, error) {
	id, err := s.verifier.Verify(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateSignedOut
		s.identity = Identity{}
		s.token = ""
		return Identity{}, err
	}
	s.state = StateAuthenticated
	s.identity = id
	s.token = token
	return id, nil
}

// SignOut clears the identity and runs the registered teardown callbacks with
// the identity that was signed in.
func (s *Session) SignOut() {
	s.mu.Lock()
	prev := s.identity
	wasIn := s.state == StateAuthenticated
	s.state = StateSignedOut
	s.identity = Identity{}
	s.token = ""
	hooks := append([]func(Identity){}, s.onSignOut...)
	s.mu.Unlock()

	if !wasIn {
		return
	}
	for _, fn := range hooks {
		fn(prev)
	}
}

// OnSignOut registers fn to run after every sign-out of an authenticated session.
func (s *Session) OnSignOut(fn func(Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSignOut = append(s.onSignOut, fn)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the auth state is still unknown.
func (s *Session) Loading() bool {
	return s.State() == StateLoading
}

// User returns the signed-in identity; ok is false while loading or signed out.
func (s *Session) User() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateAuthenticated {
		return Identity{}, false
	}
	return s.identity, true
}

// UserID is a shorthand for gating conditions. Empty unless authenticated.
func (s *Session) UserID() string {
	id, _ := s.User()
	return id.UserID
}

// Token returns the bearer token of the signed-in user, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
