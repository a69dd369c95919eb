// Package session holds the signed-in identity and the tokens the API
// client authenticates with.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"omninews/internal/core"
	"omninews/internal/models"
	"omninews/internal/storage"
)

// State is the persisted session record
type State struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Store is the process-wide session. It is constructed once from storage at
// startup and passed to whatever needs it. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	state   State
	logger  *core.Logger
}

// New loads the persisted session from st. A missing or corrupt record
// yields a signed-out session.
func New(ctx context.Context, st storage.Storage, logger *core.Logger) (*Store, error) {
	s := &Store{
		storage: st,
		logger:  logger.ForFeature("session"),
	}

	raw, ok, err := st.GetItem(ctx, storage.KeySession)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.state); err != nil {
			s.logger.Warn("Ignoring corrupt session record", "error", err)
			s.state = State{}
		}
	}

	return s, nil
}

// State returns a copy of the current session
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// User returns the signed-in user, if any
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return models.User{}, false
	}
	return *s.state.User, true
}

// SetUser marks the session authenticated as user
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setUserLocked(ctx, user)
}

// ClearUser signs the session out. Tokens are left alone; see Logout.
func (s *Store) ClearUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearUserLocked(ctx)
}

// UpdateTheme merges theme into the current identity. Without a user it
// does nothing.
func (s *Store) UpdateTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return nil
	}
	user := *s.state.User
	user.Theme = theme
	s.state.User = &user
	return s.persistLocked(ctx)
}

// Reconcile brings the session record in line with the stored tokens. The
// tokens win: a token and email with no session signs the user in, a
// session with no token signs them out.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, hasToken, err := s.storage.GetItem(ctx, storage.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	hasToken = hasToken && token != ""

	email, hasEmail, err := s.storage.GetItem(ctx, storage.KeyUserEmail)
	if err != nil {
		return fmt.Errorf("failed to read user email: %w", err)
	}
	hasEmail = hasEmail && email != ""

	switch {
	case hasToken && hasEmail && !s.state.IsAuthenticated:
		s.logger.Info("Restoring session from stored tokens", "user_email", email)
		return s.setUserLocked(ctx, models.User{
			Email:       email,
			DisplayName: models.DisplayNameFromEmail(email),
		})
	case s.state.IsAuthenticated && !hasToken:
		s.logger.Info("Clearing session without access token")
		return s.clearUserLocked(ctx)
	}
	return nil
}

// Login stores the tokens returned by a login endpoint and signs user in
func (s *Store) Login(ctx context.Context, tokens models.AuthResponse, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(ctx, storage.KeyAccessToken, tokens.AccessToken); err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, storage.KeyRefreshToken, tokens.RefreshToken); err != nil {
		return err
	}
	if err := s.storage.SetItem(ctx, storage.KeyUserEmail, user.Email); err != nil {
		return err
	}

	if user.DisplayName == "" {
		user.DisplayName = models.DisplayNameFromEmail(user.Email)
	}
	s.logger.Info("User signed in", "user_email", user.Email)
	return s.setUserLocked(ctx, user)
}

// Logout removes the stored tokens and signs the session out
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeTokensLocked(ctx); err != nil {
		return err
	}
	s.logger.Info("User signed out")
	return s.clearUserLocked(ctx)
}

// Wipe clears all local storage, as after account deletion
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Local storage wiped")
	return s.clearUserLocked(ctx)
}

// Authenticated reports whether the session may enter protected views: the
// session is signed in and an access token is stored.
func (s *Store) Authenticated(ctx context.Context) bool {
	s.mu.RLock()
	authenticated := s.state.IsAuthenticated
	s.mu.RUnlock()
	if !authenticated {
		return false
	}

	token, ok, err := s.AccessToken(ctx)
	return err == nil && ok && token != ""
}

func (s *Store) setUserLocked(ctx context.Context, user models.User) error {
	s.state = State{User: &user, IsAuthenticated: true}
	return s.persistLocked(ctx)
}

func (s *Store) clearUserLocked(ctx context.Context) error {
	s.state = State{}
	return s.persistLocked(ctx)
}

func (s *Store) removeTokensLocked(ctx context.Context) error {
	return s.storage.RemoveItem(ctx, storage.KeyAccessToken, storage.KeyRefreshToken, storage.KeyUserEmail)
}

func (s *Store) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.SetItem(ctx, storage.KeySession, string(raw)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Store) snapshot() State {
	st := State{IsAuthenticated: s.state.IsAuthenticated}
	if s.state.User != nil {
		user := *s.state.User
		st.User = &user
	}
	return st
}
