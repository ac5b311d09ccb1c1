// Package auth implements the session store: the current user identity and
// the login, registration, logout and who-am-I operations against the
// backend auth routes.
package auth

import (
	"context"

	"github.com/shubham-309/chatbot/internal/api"
	"github.com/shubham-309/chatbot/internal/logging"
)

// User is the identity record returned by the backend. The id is optional:
// the login route only returns email and username.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegisterResponse is the raw registration result, returned to the caller
// for display rather than interpreted here.
type RegisterResponse struct {
	Message string `json:"message"`
}

// Session tracks the current user and gates access to the chat surface.
// It is created once at process start and passed explicitly to the
// components that need it.
type Session struct {
	client *api.Client
	store  *CredentialStore
	user   *User
}

// NewSession creates a session store over the given transport and
// credential storage.
func NewSession(client *api.Client, store *CredentialStore) *Session {
	return &Session{client: client, store: store}
}

// User returns the current user, or nil when unauthenticated.
func (s *Session) User() *User {
	return s.user
}

// Login posts credentials. On success the returned user record is stored in
// memory and in durable local storage. On failure the error propagates to
// the caller and nothing is mutated.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	err := s.client.Post(ctx, "auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	s.user = resp.User
	if err := s.store.Save(resp.User); err != nil {
		logging.SessionError("failed to persist user record: %v", err)
	}
	logging.Session("logged in as %s", resp.User.Email)
	return resp.User, nil
}

// Register posts registration data and returns the server's response for UI
// feedback. It does not authenticate the session.
func (s *Session) Register(ctx context.Context, email, password, username string) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := s.client.Post(ctx, "auth/register", map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout requests server-side session invalidation, then unconditionally
// clears local user state and durable storage. Server failures are logged,
// never surfaced.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Post(ctx, "auth/logout", nil, nil); err != nil {
		logging.SessionError("logout request failed: %v", err)
	}

	s.user = nil
	if err := s.store.Clear(); err != nil {
		logging.SessionError("failed to clear stored user: %v", err)
	}
	logging.Session("logged out")
}

// ResolveCurrentUser asks the backend who the current session belongs to.
// Run once at process start; there is no retry and no timeout beyond the
// transport's. A returned user populates state and durable storage; no user
// or a transport failure clears state, and the caller is expected to route
// to the landing surface.
func (s *Session) ResolveCurrentUser(ctx context.Context) *User {
	var resp struct {
		User *User `json:"user"`
	}
	if err := s.client.Get(ctx, "auth/current", &resp); err != nil {
		logging.Session("current-user check failed: %v", err)
		s.clear()
		return nil
	}
	if resp.User == nil {
		s.clear()
		return nil
	}

	s.user = resp.User
	if err := s.store.Save(resp.User); err != nil {
		logging.SessionError("failed to persist user record: %v", err)
	}
	return resp.User
}

// GoogleLoginURL returns the full-page redirect target for Google OAuth.
// The endpoint is navigated to by the user, never fetched by the client.
func (s *Session) GoogleLoginURL() string {
	return s.client.EndpointURL("auth/google_login")
}

func (s *Session) clear() {
	s.user = nil
	if err := s.store.Clear(); err != nil {
		logging.SessionError("failed to clear stored user: %v", err)
	}
}
